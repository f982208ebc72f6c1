package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Run executes the script read from r line by line until EOF or until ctx
// is done. Failing lines are reported to the session output and counted;
// they do not stop the script. The returned error is only set for read
// failures and cancellation.
func (s *Session) Run(ctx context.Context, r io.Reader) (failures int, _ error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		lineNo++

		cmd, err := Parse(scanner.Text())
		if err == nil && cmd != nil {
			fmt.Fprintf(s.out, "cmd> %s\n", scanner.Text())
			err = s.Exec(cmd)
		}
		if err != nil {
			failures++
			fmt.Fprintf(s.out, "ERROR: %v\n", err)
			s.logger.Warn("command failed",
				zap.Int("line", lineNo),
				zap.String("text", scanner.Text()),
				zap.Error(err),
			)
		}
	}
	return failures, scanner.Err()
}
