package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "enabled without smtp host",
			config: Config{
				Enabled:     true,
				FromAddress: "noreply@example.com",
			},
			wantErr: "SMTP host is required",
		},
		{
			name: "enabled without from address",
			config: Config{
				Enabled:  true,
				SMTPHost: "smtp.example.com",
			},
			wantErr: "from address is required",
		},
		{
			name: "disabled - no validation",
			config: Config{
				Enabled: false,
			},
			wantErr: "",
		},
		{
			name: "valid config",
			config: Config{
				Enabled:     true,
				SMTPHost:    "smtp.example.com",
				FromAddress: "noreply@example.com",
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, sender)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, sender)
			}
		})
	}
}

func TestNewSender_Defaults(t *testing.T) {
	sender, err := NewSender(Config{
		Enabled:     true,
		SMTPHost:    "smtp.example.com",
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 587, sender.config.SMTPPort)
}

func TestNewSender_AuthSetup(t *testing.T) {
	t.Run("with credentials", func(t *testing.T) {
		sender, err := NewSender(Config{
			Enabled:      true,
			SMTPHost:     "smtp.example.com",
			FromAddress:  "noreply@example.com",
			SMTPUser:     "user",
			SMTPPassword: "pass",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender.auth)
	})

	t.Run("without credentials", func(t *testing.T) {
		sender, err := NewSender(Config{
			Enabled:     true,
			SMTPHost:    "smtp.example.com",
			FromAddress: "noreply@example.com",
		})
		require.NoError(t, err)
		assert.Nil(t, sender.auth)
	})
}

func TestBuildMessage(t *testing.T) {
	sender, err := NewSender(Config{
		Enabled:     true,
		SMTPHost:    "smtp.example.com",
		FromAddress: "noreply@example.com",
		FromName:    "Food Order System",
	})
	require.NoError(t, err)

	msg := string(sender.buildMessage("customer@example.com", "Receipt for Order #ord_1", "Thank you for your order."))

	assert.Contains(t, msg, "From: Food Order System <noreply@example.com>\r\n")
	assert.Contains(t, msg, "To: customer@example.com\r\n")
	assert.Contains(t, msg, "Subject: Receipt for Order #ord_1\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.Contains(t, msg, "\r\n\r\nThank you for your order.")
}

func TestBuildMessage_NoFromName(t *testing.T) {
	sender, err := NewSender(Config{
		Enabled:     true,
		SMTPHost:    "smtp.example.com",
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)

	msg := string(sender.buildMessage("customer@example.com", "subject", "body"))
	assert.Contains(t, msg, "From: noreply@example.com\r\n")
}
