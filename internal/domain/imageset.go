package domain

// ImageSet tracks image URLs already assigned to some recipe. It is loaded
// once from the store at startup and grown in memory during a run, so no URL
// ends up shared between two recipes. Not safe for concurrent use; the batch
// is strictly sequential.
type ImageSet struct {
	urls map[string]struct{}
}

// NewImageSet seeds the set with already-assigned URLs.
func NewImageSet(urls ...string) *ImageSet {
	s := &ImageSet{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		if u != "" {
			s.urls[u] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the URL is already claimed.
func (s *ImageSet) Contains(url string) bool {
	_, ok := s.urls[url]
	return ok
}

// Add claims a URL.
func (s *ImageSet) Add(url string) {
	if url != "" {
		s.urls[url] = struct{}{}
	}
}

// Remove releases a URL whose store write did not commit.
func (s *ImageSet) Remove(url string) {
	delete(s.urls, url)
}

// Len returns the number of claimed URLs.
func (s *ImageSet) Len() int {
	return len(s.urls)
}
