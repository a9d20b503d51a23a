package codec

import (
	"fmt"

	"github.com/golang/snappy"
)

// Compress shrinks serialized JSON text before it goes to the byte
// store. Snappy's block format trades ratio for speed, which suits
// commit-sized payloads written on every snapshot.
func Compress(text string) []byte {
	return snappy.Encode(nil, []byte(text))
}

// Decompress reverses Compress.
func Decompress(data []byte) (string, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return "", fmt.Errorf("codec: decompress: %w", err)
	}
	return string(out), nil
}
