package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingKeys_NeverContainsPINHash(t *testing.T) {
	keys := SettingKeys()

	assert.NotEmpty(t, keys)
	assert.NotContains(t, keys, pinHashKey)
}
