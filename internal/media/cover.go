package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

// ErrNoCoverArt is returned when an audio file has no embedded picture.
var ErrNoCoverArt = errors.New("no embedded cover art")

// Picture type for the front cover, shared by ID3v2 APIC and FLAC PICTURE.
const frontCover = 3

// Picture is an embedded image from an audio file.
type Picture struct {
	MIME string
	Type int
	Data []byte
}

// CoverArt returns the front cover of an MP3 or FLAC file, or the first
// picture when no front cover is tagged.
func CoverArt(path string) (Picture, error) {
	var (
		pics []Picture
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		pics, err = id3Pictures(path)
	case ".flac":
		pics, err = flacPictures(path)
	default:
		return Picture{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Picture{}, err
	}
	if pic, ok := pickCover(pics); ok {
		return pic, nil
	}
	return Picture{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoCoverArt)
}

func pickCover(pics []Picture) (Picture, bool) {
	for _, p := range pics {
		if p.Type == frontCover && len(p.Data) > 0 {
			return p, true
		}
	}
	for _, p := range pics {
		if len(p.Data) > 0 {
			return p, true
		}
	}
	return Picture{}, false
}

func id3Pictures(path string) ([]Picture, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		return nil, fmt.Errorf("reading ID3 tag: %w", err)
	}
	defer tag.Close()

	var pics []Picture
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		pics = append(pics, Picture{MIME: pf.MimeType, Type: int(pf.PictureType), Data: pf.Picture})
	}
	return pics, nil
}

func flacPictures(path string) ([]Picture, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading FLAC metadata: %w", err)
	}
	defer stream.Close()

	var pics []Picture
	for _, block := range stream.Blocks {
		if block.Header.Type != meta.TypePicture {
			continue
		}
		pic, ok := block.Body.(*meta.Picture)
		if !ok {
			continue
		}
		pics = append(pics, Picture{MIME: pic.MIME, Type: int(pic.Type), Data: pic.Data})
	}
	return pics, nil
}
