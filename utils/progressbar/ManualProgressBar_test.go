package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 4)

	p.Increment()
	p.Display()
	assert.Equal(t, 0.25, p.Fraction())
	assert.Contains(t, buf.String(), "25.00%")
	assert.Contains(t, buf.String(), "|"+strings.Repeat("█", 2)+
		strings.Repeat(" ", 8)+"|")

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	p.Display()
	assert.Equal(t, 1.0, p.Fraction())
	assert.Contains(t, buf.String(), "100.00%")

	p.Close()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
