package chain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInvalidURL = errors.New("invalid URL")

// TestURLProcessing runs every URL through its own inner pipeline, so one
// failing URL turns into "invalid" instead of ending the whole stream.
func TestURLProcessing(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://www.example.com",
		"https://www.test.org",
		"https://www.google.com",
		"https://www.microsoft.com",
		"https://www.micros---oft.com",
		"https://www.mic--ros---oft.com",

		"invalid-url",
		"ftp://invalid-protocol.com",
	}

	results, err := Drain(processURLs(urls))
	require.NoError(t, err)

	assert.Equal(t, len(urls), len(results))

	invalid := 0
	for _, res := range results {
		if res == "invalid" {
			invalid++
		}
	}
	assert.Equal(t, 2, invalid)
	assert.Equal(t, fmt.Sprintf("title length: %d", len(mockTitle(urls[0]))), results[0])
}

func processURLs(urls []string) *Chain[string] {
	return Then(FromValues(urls...), rx.ConcatMap(func(url string, _ int) rx.Source[string] {
		perURL := ThenTry(FromValues(url), mockFetchTitle)
		lengths := Map(perURL, func(title string) string {
			return fmt.Sprintf("title length: %d", len(title))
		})
		return rx.CatchError(func(error) rx.Source[string] {
			return rx.Of("invalid")
		})(lengths.Source())
	}))
}

func mockFetchTitle(url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", errInvalidURL
	}
	return mockTitle(url), nil
}

func mockTitle(url string) string {
	return "Mock Page Title for " + url
}
