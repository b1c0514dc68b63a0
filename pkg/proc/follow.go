package proc

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"
)

// followPollInterval is the sleep between reads once the tail of the file
// is reached.
const followPollInterval = 250 * time.Millisecond

// FollowFile streams path to w line by line, tailing new content as it is
// appended, until ctx is done. The file must already exist.
func FollowFile(ctx context.Context, path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrFollow.Wrapf("%s: %v", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(w, line); werr != nil {
				return ErrFollow.Wrapf("%s: write: %v", path, werr)
			}
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return ErrFollow.Wrapf("%s: read: %v", path, err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followPollInterval):
		}
	}
}
