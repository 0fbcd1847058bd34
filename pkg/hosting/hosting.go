package hosting

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// PathPrefix is the URL path under which hosted images are served
const PathPrefix = "/graficos/"

// Host stores an image under filename and returns its retrieval URL
type Host interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ValidFilename reports whether name can be hosted: a bare file name with no
// directory components.
func ValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return path.Base(name) == name
}

// ImageURL joins baseURL and the hosted path for filename
func ImageURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + PathPrefix + url.PathEscape(filename)
}

func unavailable(format string, args ...interface{}) *models.Error {
	return models.NewError(models.KindHostingUnavailable, "Image hosting unavailable", fmt.Errorf(format, args...))
}
