package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes emails to disk instead of sending them, for local
// development without Postmark credentials.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender saving emails under dir.
// The directory is created on first send.
func NewDevSender(dir string) Sender {
	return &DevSender{dir: dir}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9-]+`)

func (d *DevSender) Send(ctx context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create output directory: %v", ErrFailedToSend, err)
	}

	name := params.Tag
	if name == "" {
		name = params.Subject
	}
	name = unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-")
	filename := fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405"), name)

	if err := os.WriteFile(filepath.Join(d.dir, filename), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write email file: %v", ErrFailedToSend, err)
	}
	return nil
}
