package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micropass/micropass-go/internal/crypto"
	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/models"
)

// TestVaultFlow drives a whole client lifetime against the in-memory
// server: register, login, unlock, CRUD, reconcile, and a second "device"
// that logs in independently and reads the same vault.
func TestVaultFlow(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	keyChain := newTestKeyChain()
	codec := crypto.NewEnvelopeCodec(crypto.NewProvider())
	log := logger.Nop()

	identity := NewIdentityService(server, keyChain, log)
	users := NewUserService(server, keyChain, log)

	require.NoError(t, identity.Register(ctx, testEmail, testPassword, "rhymes with taster"))

	session, err := identity.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	session, err = users.Unlock(ctx, session, testEmail, testPassword)
	require.NoError(t, err)

	ciphers := NewCipherService(server, codec, session, log)

	data := models.CipherData{
		Type:     models.Login,
		Name:     "Example",
		Favorite: true,
		Fields: map[string]models.CipherField{
			models.FieldNameUser:  {Type: models.FieldDefault, Value: "someone"},
			models.FieldNamePass:  {Type: models.FieldDefault, Value: "s3cret"},
			models.FieldNameURL:   {Type: models.FieldDefault, Value: "https://example.com"},
			"Custom Field":        {Type: models.FieldText, Value: "visible text"},
			"Custom Secret Field": {Type: models.FieldHidden, Value: "masked text"},
		},
	}

	id, err := ciphers.Insert(ctx, data)
	require.NoError(t, err)

	list, err := ciphers.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, list.Updated)
	assert.Empty(t, list.Deleted)

	got, err := ciphers.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)

	// Custom field type tags survive the encrypt/upload/fetch/decrypt trip.
	assert.Equal(t, models.CipherField{Type: models.FieldText, Value: "visible text"}, got.Data.Fields["Custom Field"])
	assert.Equal(t, models.CipherField{Type: models.FieldHidden, Value: "masked text"}, got.Data.Fields["Custom Secret Field"])

	// Reconcile the local cache, then rotate the password field.
	cache := newFakeCache()
	syncer := NewSyncService(server, cache, session, log)
	require.NoError(t, syncer.Reconcile(ctx))

	data.Fields[models.FieldNamePass] = models.CipherField{Type: models.FieldDefault, Value: "rotated"}
	require.NoError(t, ciphers.Update(ctx, id, data))

	// A second device sees the same vault with nothing but the
	// credentials: separate login, separate unlock, same plaintext.
	other, err := identity.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	other, err = users.Unlock(ctx, other, testEmail, testPassword)
	require.NoError(t, err)

	otherCiphers := NewCipherService(server, codec, other, log)
	fromOther, err := otherCiphers.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "rotated", fromOther.Data.Fields[models.FieldNamePass].Value)
	assert.Equal(t, "someone", fromOther.Data.GetTypedFields().Username)
	assert.Equal(t, models.FieldHidden, fromOther.Data.Fields["Custom Secret Field"].Type)

	require.NoError(t, otherCiphers.Delete(ctx, id))

	list, err = otherCiphers.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list.Updated)
}
