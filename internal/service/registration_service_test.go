package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"dypcet/linuxsaga-backend/internal/domain"
	"dypcet/linuxsaga-backend/internal/upload"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- fakes ---

type fakeMediaStorage struct {
	url     string
	err     error
	uploads int
	// seenPathExisted records whether the local file was still on disk
	// when the relay call happened.
	seenPathExisted bool
}

func (f *fakeMediaStorage) UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error) {
	f.uploads++
	_, statErr := os.Stat(localPath)
	f.seenPathExisted = statErr == nil
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeMediaStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

type fakeRegistrationRepo struct {
	err     error
	created []*domain.Registration
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	reg.ID = primitive.NewObjectID()
	f.created = append(f.created, reg)
	return reg.ID, nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Registration, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrationRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.created)), nil
}

// --- helpers ---

func newTransient(t *testing.T) (*upload.Store, *upload.TransientUpload) {
	t.Helper()
	store, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)
	tu, err := store.Save("payment.png", "image/png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	return store, tu
}

func testSubmission() domain.Submission {
	return domain.Submission{
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "9999999999",
		College:    "DYPCET",
		Experience: domain.ExperienceBeginner,
	}
}

// --- tests ---

func TestRegister_HappyPath(t *testing.T) {
	store, tu := newTransient(t)
	media := &fakeMediaStorage{url: "https://cdn.example.com/registrations/abc.png"}
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, media, store)

	reg, err := svc.Register(context.Background(), testSubmission(), tu)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	require.Equal(t, media.url, reg.PaymentScreenshot)
	require.Equal(t, "Asha Rao", reg.FullName)
	require.Equal(t, domain.ExperienceBeginner, reg.Experience)

	// The relay saw the file on disk, and it is gone afterwards.
	require.True(t, media.seenPathExisted)
	_, statErr := os.Stat(tu.StoredPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRegister_RelayFailureAbortsBeforePersistence(t *testing.T) {
	store, tu := newTransient(t)
	media := &fakeMediaStorage{err: errors.New("provider outage")}
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, media, store)

	_, err := svc.Register(context.Background(), testSubmission(), tu)
	require.ErrorIs(t, err, ErrMediaRelayFailed)

	require.Empty(t, repo.created)
	// Cleanup happens on the failure path too.
	_, statErr := os.Stat(tu.StoredPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRegister_PersistenceFailureLeavesMediaAssetOrphaned(t *testing.T) {
	store, tu := newTransient(t)
	media := &fakeMediaStorage{url: "https://cdn.example.com/registrations/abc.png"}
	repo := &fakeRegistrationRepo{err: errors.New("connection lost")}
	svc := NewRegistrationService(repo, media, store)

	_, err := svc.Register(context.Background(), testSubmission(), tu)
	require.ErrorIs(t, err, ErrPersistenceFailed)

	// The media asset was created and is not compensated for; this is
	// the documented inconsistency between the two stores.
	require.Equal(t, 1, media.uploads)
	require.Empty(t, repo.created)

	_, statErr := os.Stat(tu.StoredPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRegistrationObjectKey_KeepsExtensionLowercased(t *testing.T) {
	key := registrationObjectKey("Screenshot.PNG")
	require.True(t, strings.HasPrefix(key, "registrations/"))
	require.True(t, strings.HasSuffix(key, ".png"))
}

func TestRegistrationObjectKey_Unique(t *testing.T) {
	require.NotEqual(t, registrationObjectKey("a.png"), registrationObjectKey("a.png"))
}
