package services

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGmailWebService_URL(t *testing.T) {
	assert.Equal(t, "https://mail.google.com/mail/u/0/#sent/18c1a0f2e4b1",
		NewGmailWebService(nil, 0).GenerateGmailWebURL(" 18c1a0f2e4b1 "))
	assert.Equal(t, "https://mail.google.com/mail/u/2/#sent/abc",
		NewGmailWebService(nil, 2).GenerateGmailWebURL("abc"))
	assert.Equal(t, "https://mail.google.com/mail/u/0/#sent/abc",
		NewGmailWebService(nil, -1).GenerateGmailWebURL("abc"))
}

func TestGmailWebService_ValidateThreadID(t *testing.T) {
	svc := NewGmailWebService(nil, 0)

	tests := []struct {
		id      string
		wantErr bool
	}{
		{"18c1a0f2e4b1", false},
		{"t-18c1_a0", false},
		{"", true},
		{"   ", true},
		{"abc/../x", true},
		{"id with space", true},
	}

	for _, tt := range tests {
		err := svc.ValidateThreadID(tt.id)
		if tt.wantErr {
			assert.Error(t, err, tt.id)
		} else {
			assert.NoError(t, err, tt.id)
		}
	}
}

func TestGmailWebService_OpenThreadInWeb(t *testing.T) {
	links := &mockLinkService{}
	links.On("OpenLink", mock.Anything, "https://mail.google.com/mail/u/0/#sent/t1").Return(nil)
	svc := NewGmailWebService(links, 0)

	require.NoError(t, svc.OpenThreadInWeb(context.Background(), "t1"))
	links.AssertExpectations(t)
}

func TestGmailWebService_OpenErrors(t *testing.T) {
	assert.ErrorContains(t, NewGmailWebService(nil, 0).OpenThreadInWeb(context.Background(), "t1"), "link service not available")
	assert.ErrorContains(t, NewGmailWebService(nil, 0).OpenThreadInWeb(context.Background(), ""), "invalid thread ID")

	links := &mockLinkService{}
	links.On("OpenLink", mock.Anything, mock.Anything).Return(errors.New("no browser"))
	assert.ErrorContains(t, NewGmailWebService(links, 0).OpenThreadInWeb(context.Background(), "t1"), "no browser")
}

func TestLinkService_ValidateURL(t *testing.T) {
	svc := NewLinkService()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://mail.google.com/mail/u/0/#sent/x", false},
		{"http://localhost:8000", false},
		{"mailto:someone@example.com", false},
		{"", true},
		{"example.com", true},
		{"https://", true},
		{"javascript:alert(1)", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		err := svc.ValidateURL(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
		} else {
			assert.NoError(t, err, tt.url)
		}
	}
}

func TestLinkService_OpenLinkUsesPlatformCommand(t *testing.T) {
	svc := NewLinkService()
	var gotURL string
	svc.command = func(ctx context.Context, goos, url string) (*exec.Cmd, error) {
		gotURL = url
		return exec.CommandContext(ctx, "true"), nil
	}

	require.NoError(t, svc.OpenLink(context.Background(), "https://example.com"))
	assert.Equal(t, "https://example.com", gotURL)

	assert.Error(t, svc.OpenLink(context.Background(), "ftp://example.com"))
}

func TestOpenCommand(t *testing.T) {
	cmd, err := openCommand(context.Background(), "darwin", "https://x.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "https://x.example"}, cmd.Args)

	cmd, err = openCommand(context.Background(), "linux", "https://x.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"xdg-open", "https://x.example"}, cmd.Args)

	_, err = openCommand(context.Background(), "plan9", "https://x.example")
	assert.Error(t, err)
}
