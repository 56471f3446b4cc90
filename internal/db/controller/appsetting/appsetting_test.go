package appsetting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.AppSetting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func strPtr(s string) *string {
	return &s
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		seedValue     *string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "telegram_link",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			key:           "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:      "successful get",
			dbParam:   db,
			key:       "telegram_link",
			seedValue: strPtr("https://t.me/growtools"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM app_settings")
			}

			if tc.seedValue != nil {
				err := tc.dbParam.Create(&models.AppSetting{Key: tc.key, Value: tc.seedValue}).Error
				require.NoError(t, err, "failed to seed test data")
			}

			setting, err := Get(tc.dbParam, tc.key)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				require.NotNil(t, setting)
				assert.Equal(t, tc.key, setting.Key)
				assert.Equal(t, tc.seedValue, setting.Value)
			}
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	// create
	setting, err := Set(db, "meta_pixel_enabled", strPtr("true"))
	require.NoError(t, err)
	require.NotNil(t, setting.Value)
	assert.Equal(t, "true", *setting.Value)

	// upsert same key
	setting, err = Set(db, "meta_pixel_enabled", strPtr("false"))
	require.NoError(t, err)
	require.NotNil(t, setting.Value)
	assert.Equal(t, "false", *setting.Value)

	// only one row exists
	var count int64
	db.Model(&models.AppSetting{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// nil value is allowed
	setting, err = Set(db, "meta_pixel_id", nil)
	require.NoError(t, err)
	assert.Nil(t, setting.Value)

	// empty key is rejected
	_, err = Set(db, "", strPtr("x"))
	require.ErrorIs(t, err, ErrSettingKeyEmpty)

	// nil db is rejected
	_, err = Set(nil, "key", nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "whatsapp_number", strPtr("123"))
	require.NoError(t, err)
	_, err = Set(db, "telegram_link", strPtr("https://t.me/growtools"))
	require.NoError(t, err)

	settings, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, settings, 2)

	// ordered by key ascending
	assert.Equal(t, "telegram_link", settings[0].Key)
	assert.Equal(t, "whatsapp_number", settings[1].Key)

	_, err = GetAll(nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "telegram_link", strPtr("https://t.me/growtools"))
	require.NoError(t, err)

	require.NoError(t, Delete(db, "telegram_link"))
	require.ErrorIs(t, Delete(db, "telegram_link"), ErrSettingNotFound)
	require.ErrorIs(t, Delete(db, ""), ErrSettingKeyEmpty)
	require.ErrorIs(t, Delete(nil, "telegram_link"), ErrDBNil)
}
