package distill

import "strings"

// ChunkWords splits text into word windows sized for a completion model.
//
// The token count is estimated as words*wordTokenRate. Text within
// threshold is returned whole and unmodified. Larger text is cut into
// windows of threshold/wordTokenRate words that overlap by
// overlapRate of a window; the last window ends at the last word.
// Text without words yields no chunks.
func ChunkWords(text string, threshold int, overlapRate, wordTokenRate float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	estimated := int(float64(len(words)) * wordTokenRate)
	if estimated <= threshold {
		return []string{text}
	}

	size := max(int(float64(threshold)/wordTokenRate), 1)
	overlap := int(float64(size) * overlapRate)
	step := max(size-overlap, 1)

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := min(i+size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
