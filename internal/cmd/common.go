package cmd

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// readMarkdown loads the input for a command: "-" for stdin, an https URL,
// or a local file path.
func readMarkdown(fileName string) ([]byte, error) {
	if fileName == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, errors.Wrap(err, "failed to read from stdin")
	}

	if strings.HasPrefix(fileName, "https://") {
		client := http.Client{
			Timeout: time.Second * 10,
		}
		resp, err := client.Get(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get a file %q", fileName)
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return data, errors.Wrap(err, "failed to read body")
	}

	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %q", fileName)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	return data, errors.Wrapf(err, "failed to read from file %q", fileName)
}
