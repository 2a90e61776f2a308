package geo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenMissingDatabase(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "GeoLite2-City.mmdb"))
	assert.Error(t, err)
	assert.Nil(t, r)
}
