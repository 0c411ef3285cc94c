// Package textsplit cuts page text into fixed-size overlapping chunks for
// embedding. The splitter works down a separator hierarchy (paragraphs,
// lines, words, runes) so chunk boundaries land on natural breaks whenever
// the text allows it.
package textsplit

import "strings"

// Defaults match the retrieval granularity the service was tuned for:
// chunks of ~500 characters with 50 characters of overlap between neighbors.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text recursively by separators into bounded chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a Splitter. Non-positive size falls back to DefaultChunkSize;
// an overlap that is negative or >= the chunk size falls back to
// DefaultOverlap.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split cuts text into chunks of at most the configured size (counted in
// runes), overlapping consecutive chunks where merging allows. Whitespace-only
// pieces are dropped; whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, defaultSeparators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	rest := []string{}
	for i, cand := range separators {
		if cand == "" || strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		parts = cutRunes(text, s.chunkSize)
	} else {
		parts = strings.Split(text, sep)
	}

	var chunks []string
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending, sep)...)
			pending = nil
		}
	}

	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if runeLen(part) < s.chunkSize {
			pending = append(pending, part)
			continue
		}
		// Oversized piece: emit what is buffered, then split deeper.
		flush()
		if len(rest) == 0 {
			chunks = append(chunks, strings.TrimSpace(part))
		} else {
			chunks = append(chunks, s.split(part, rest)...)
		}
	}
	flush()

	return chunks
}

// merge joins small pieces back together up to the chunk size, carrying the
// configured overlap from the tail of each emitted chunk into the next.
func (s *Splitter) merge(parts []string, sep string) []string {
	sepLen := runeLen(sep)

	var chunks []string
	var window []string
	total := 0

	join := func() string {
		return strings.TrimSpace(strings.Join(window, sep))
	}

	for _, part := range parts {
		partLen := runeLen(part)

		if len(window) > 0 && total+sepLen+partLen > s.chunkSize {
			if c := join(); c != "" {
				chunks = append(chunks, c)
			}
			// Drop from the front until the remainder fits within the
			// overlap budget and leaves room for the incoming part.
			for len(window) > 0 &&
				(total > s.overlap || (total+sepLen+partLen > s.chunkSize && total > 0)) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}

		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, part)
		total += partLen
	}

	if c := join(); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// cutRunes hard-cuts text into size-rune pieces. Last resort for text with
// no separators at all.
func cutRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var parts []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

func runeLen(s string) int {
	return len([]rune(s))
}
