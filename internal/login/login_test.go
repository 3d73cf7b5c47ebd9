package login

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storekeeper/internal/prompt"
	"github.com/mesh-intelligence/storekeeper/internal/settings"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func newStore(t *testing.T, creds types.Credentials) *settings.Store {
	t.Helper()
	store, err := settings.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.SaveCredentials(creds))
	return store
}

func newDialog(store CredentialStore, input string) (*Dialog, *bytes.Buffer) {
	var out bytes.Buffer
	return NewDialog(store, prompt.New(strings.NewReader(input), &out)), &out
}

func TestExec_AcceptPersists(t *testing.T) {
	store := newStore(t, types.Credentials{User: "old", Password: "pw", Port: "3306"})
	d, out := newDialog(store, "alice\nsecret\n3307\ny\n")

	creds, err := d.Exec()
	require.NoError(t, err)

	want := types.Credentials{User: "alice", Password: "secret", Port: "3307"}
	assert.Equal(t, want, creds)
	assert.Equal(t, want, store.Credentials())
	assert.Contains(t, out.String(), "User [old]")
	assert.NotContains(t, out.String(), "pw")

	reopened, err := settings.Open(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Equal(t, want, reopened.Credentials())
}

func TestExec_EmptyAnswersKeepValues(t *testing.T) {
	initial := types.Credentials{User: "bob", Password: "pw", Port: "3306"}
	store := newStore(t, initial)
	d, _ := newDialog(store, "\n\n\n\n")

	creds, err := d.Exec()
	require.NoError(t, err)
	assert.Equal(t, initial, creds)
}

func TestExec_DashClearsStoredValues(t *testing.T) {
	store := newStore(t, types.Credentials{User: "bob", Password: "pw", Port: "3306"})
	d, out := newDialog(store, "-\n-\n-\ny\n")

	creds, err := d.Exec()
	require.NoError(t, err)
	assert.Equal(t, types.Credentials{}, creds)
	assert.Equal(t, types.Credentials{}, store.Credentials())
	assert.Contains(t, out.String(), `"-" to clear`)
}

func TestExec_RejectLeavesSettings(t *testing.T) {
	initial := types.Credentials{User: "bob", Password: "pw", Port: "3306"}

	tests := []struct {
		name  string
		input string
	}{
		{name: "answer no", input: "eve\nx\n1\nn\n"},
		{name: "end of input", input: "eve\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, initial)
			d, _ := newDialog(store, tt.input)

			_, err := d.Exec()
			assert.ErrorIs(t, err, ErrCanceled)
			assert.Equal(t, initial, store.Credentials())
		})
	}
}

func TestRun_RepromptsUntilGateAccepts(t *testing.T) {
	store := newStore(t, types.Credentials{})
	d, _ := newDialog(store, "u1\np1\n1\ny\nu2\np2\n2\ny\n")

	var attempts []types.Credentials
	gate := func(_ context.Context, c types.Credentials) bool {
		attempts = append(attempts, c)
		return c.User == "u2"
	}

	var warn bytes.Buffer
	creds, err := Run(context.Background(), d, gate, &warn)
	require.NoError(t, err)

	assert.Equal(t, "u2", creds.User)
	assert.Len(t, attempts, 2)
	assert.Equal(t, FailedMessage+"\n", warn.String())
	assert.Equal(t, creds, store.Credentials())
}

func TestRun_CancelStops(t *testing.T) {
	store := newStore(t, types.Credentials{})
	d, _ := newDialog(store, "u1\np1\n1\ny\n")

	calls := 0
	gate := func(context.Context, types.Credentials) bool {
		calls++
		return false
	}

	var warn bytes.Buffer
	_, err := Run(context.Background(), d, gate, &warn)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, strings.Count(warn.String(), FailedMessage))
}

func TestRun_ContextCanceled(t *testing.T) {
	store := newStore(t, types.Credentials{})
	d, _ := newDialog(store, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, d, func(context.Context, types.Credentials) bool { return true }, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
