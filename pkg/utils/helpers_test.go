package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"  leading and trailing  ", "leading and trailing"},
		{"inner\n\twhitespace\n runs", "inner whitespace runs"},
		{"", ""},
		{"   \n\t  ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CollapseWhitespace(tt.input))
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Looking for AWS Lambda experience", "aws lambda"))
	assert.True(t, ContainsFold("golang developer", "GOLANG"))
	assert.False(t, ContainsFold("node developer", "golang"))
	assert.False(t, ContainsFold("", "golang"))
	assert.True(t, ContainsFold("anything", ""))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "value", GetStringOrDefault("value", "fallback"))
	assert.Equal(t, "fallback", GetStringOrDefault("", "fallback"))
}

func TestCustomErrorKinds(t *testing.T) {
	err := NewCaptchaUnresolvedError("still on the challenge page")

	assert.True(t, IsKind(err, KindCaptchaUnresolved))
	assert.False(t, IsKind(err, KindTimeout))

	ce, ok := AsCustomError(err)
	assert.True(t, ok)
	assert.Equal(t, 408, ce.Code)
	assert.Contains(t, ce.Error(), "still on the challenge page")
}
