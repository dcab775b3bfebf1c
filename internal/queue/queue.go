package queue

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olivier-w/climg/internal/media"
)

// ImageState is how far a gallery entry got through decoding.
type ImageState int

const (
	Pending ImageState = iota
	Loading
	Ready
	Failed
)

// Image is a single gallery entry.
type Image struct {
	Path  string
	Title string
	State ImageState
}

// Queue is an ordered gallery of images with a cursor.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	images  []Image
	current int
}

// New creates a Queue from the given images.
func New(images []Image) *Queue {
	return &Queue{images: images}
}

// FromDir builds a gallery of the supported files next to path, sorted
// case-insensitively, with the cursor on path itself.
func FromDir(path string) (*Queue, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []Image
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !media.IsSupportedPath(e.Name()) {
			continue
		}
		images = append(images, Image{Path: filepath.Join(dir, e.Name()), Title: e.Name()})
	}
	sort.SliceStable(images, func(i, j int) bool {
		return strings.ToLower(images[i].Title) < strings.ToLower(images[j].Title)
	})

	q := New(images)
	q.current = -1
	for i, img := range images {
		if img.Path == abs {
			q.current = i
			break
		}
	}
	if q.current < 0 {
		// The input itself may have an unusual extension; keep it first.
		q.images = append([]Image{{Path: abs, Title: filepath.Base(abs)}}, q.images...)
		q.current = 0
	}
	return q, nil
}

// Current returns a pointer to the current image, or nil if empty.
func (q *Queue) Current() *Image {
	if q.current < 0 || q.current >= len(q.images) {
		return nil
	}
	return &q.images[q.current]
}

// Advance moves the cursor forward, wrapping to the first image and
// skipping entries that failed to decode. Returns false when there is
// nothing else to show.
func (q *Queue) Advance() bool {
	return q.step(1)
}

// Previous moves the cursor back, wrapping to the last image.
func (q *Queue) Previous() bool {
	return q.step(-1)
}

func (q *Queue) step(dir int) bool {
	n := len(q.images)
	for i := 1; i < n; i++ {
		next := ((q.current+dir*i)%n + n) % n
		if q.images[next].State != Failed {
			q.current = next
			return true
		}
	}
	return false
}

// Len returns the total number of images.
func (q *Queue) Len() int {
	return len(q.images)
}

// Failed returns how many entries could not be decoded.
func (q *Queue) Failed() int {
	n := 0
	for _, img := range q.images {
		if img.State == Failed {
			n++
		}
	}
	return n
}

// CurrentIndex returns the zero-based index of the current image.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetState records the decode state of image i.
func (q *Queue) SetState(i int, state ImageState) {
	if i >= 0 && i < len(q.images) {
		q.images[i].State = state
	}
}
