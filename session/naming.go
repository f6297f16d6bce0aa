package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// assetName builds a file name that is unique even within the same second,
// e.g. speech_1718000000_1b4e28ba.
func assetName(prefix string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d_%s", prefix, now.Unix(), id[:8])
}
