package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ObjectPath builds "<prefix>/<ownerID>/<unix-ms>_<name>" for an upload.
// Directory components in fileName are dropped.
func ObjectPath(prefix, ownerID, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s/%d_%s", prefix, ownerID, at.UnixMilli(), name)
}
