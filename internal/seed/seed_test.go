package seed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

func TestInitializeSeedsEmptyStore(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	err := Initialize(ctx, store, zap.NewNop())
	require.NoError(t, err)

	raw, err := store.Get(ctx, kvstore.KeyLecturers)
	require.NoError(t, err)
	var lecturerList []models.Lecturer
	require.NoError(t, json.Unmarshal([]byte(raw), &lecturerList))
	assert.Len(t, lecturerList, 10)
	assert.Equal(t, "197805152005011001", lecturerList[0].NIP)
	assert.Equal(t, models.StatusActive, lecturerList[0].Status)

	raw, err = store.Get(ctx, kvstore.KeyFacilities)
	require.NoError(t, err)
	var facilityList []models.Facility
	require.NoError(t, json.Unmarshal([]byte(raw), &facilityList))
	assert.Len(t, facilityList, 12)
	assert.Equal(t, "LAB-KOMP-01", facilityList[0].Code)

	raw, err = store.Get(ctx, kvstore.KeyPeriods)
	require.NoError(t, err)
	var periodList []models.Period
	require.NoError(t, json.Unmarshal([]byte(raw), &periodList))
	require.Len(t, periodList, 3)

	active := 0
	for _, p := range periodList {
		if p.Status == models.PeriodActive {
			active++
		}
	}
	assert.Equal(t, 1, active, "exactly one seeded period is active")
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kvstore.KeyLecturers, `[{"id":99,"nip":"X","full_name":"Custom"}]`))
	require.NoError(t, Initialize(ctx, store, zap.NewNop()))

	raw, err := store.Get(ctx, kvstore.KeyLecturers)
	require.NoError(t, err)
	var lecturerList []models.Lecturer
	require.NoError(t, json.Unmarshal([]byte(raw), &lecturerList))
	require.Len(t, lecturerList, 1, "existing catalog must not be overwritten")
	assert.Equal(t, int64(99), lecturerList[0].ID)

	_, err = store.Get(ctx, kvstore.KeyFacilities)
	assert.NoError(t, err, "missing catalogs are still seeded")
}

func TestInitializeSeedsVerifiablePasswords(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, Initialize(ctx, store, zap.NewNop()))

	raw, err := store.Get(ctx, kvstore.KeyUsers)
	require.NoError(t, err)
	var accounts []models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &accounts))
	require.Len(t, accounts, 2)

	byNIM := map[string]models.User{}
	for _, u := range accounts {
		byNIM[u.NIM] = u
	}

	student := byNIM["2301010001"]
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("123456")))

	admin := byNIM["admin"]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestQuestionCatalogs(t *testing.T) {
	assert.Equal(t, 16, QuestionCount(models.KindLecturer))
	assert.Equal(t, 12, QuestionCount(models.KindFacility))
	assert.Equal(t, 0, QuestionCount(models.EvaluationKind("unknown")))

	ids := KnownQuestionIDs(models.KindFacility)
	assert.Len(t, ids, 12)
	_, ok := ids[1]
	assert.True(t, ok)
}
