package intake

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/service/transport"
)

func TestAttachmentLoader_Load(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	localFile := filepath.Join(dir, "ticket.png")
	require.NoError(t, os.WriteFile(localFile, []byte("png-bytes"), 0o644))
	encoded := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	testCases := []struct {
		description string
		value       string
		expected    *transport.Image
		expectErr   bool
	}{
		{
			description: "http url",
			value:       "https://cdn.example.com/passport.jpg",
			expected:    &transport.Image{URL: "https://cdn.example.com/passport.jpg", Caption: "cap"},
		},
		{
			description: "data url",
			value:       "data:image/jpeg;base64," + encoded,
			expected:    &transport.Image{Data: []byte("jpeg-bytes"), MimeType: "image/jpeg", Caption: "cap"},
		},
		{
			description: "local path",
			value:       localFile,
			expected:    &transport.Image{Data: []byte("png-bytes"), MimeType: "image/png", Caption: "cap"},
		},
		{description: "missing file", value: filepath.Join(dir, "missing.png"), expectErr: true},
		{description: "data url not base64", value: "data:image/png,raw", expectErr: true},
		{description: "data url not image", value: "data:text/plain;base64," + encoded, expectErr: true},
		{description: "data url corrupt", value: "data:image/png;base64,@@@", expectErr: true},
	}

	loader := NewAttachmentLoader()
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := loader.Load(ctx, tc.value, "cap")
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.expected, actual)
		})
	}
}

func TestAttachments_Ordered(t *testing.T) {
	attachments := &Attachments{HotelTicket: "h", Identity: " i ", FlightTicket: ""}
	ordered := attachments.ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "identity", ordered[0].name)
	assert.Equal(t, "i", ordered[0].value)
	assert.Equal(t, "hotel_ticket", ordered[1].name)

	var none *Attachments
	assert.Empty(t, none.ordered())
}
