package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// computeHash returns the xxhash of a page body as sixteen hex digits.
func computeHash(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}
