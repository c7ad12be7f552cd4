package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterContactFileRequiresMetadata(t *testing.T) {
	db := newTestDB(t)
	svc := NewStorageService(db, newTestConfig())

	err := svc.RegisterContactFile(&models.ContactFile{FileName: "passport.pdf"})
	require.Error(t, err)
	assert.Equal(t, "文档元数据不完整", err.Error())

	file := models.ContactFile{ContactID: "contact-1", FileName: "passport.pdf"}
	require.NoError(t, svc.RegisterContactFile(&file))
	assert.NotEmpty(t, file.ID)
}

func TestDeleteContactFileNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewStorageService(db, newTestConfig())

	err := svc.DeleteContactFile("no-such-file")
	require.Error(t, err)
	assert.Equal(t, "文档不存在", err.Error())
}

func TestGetSignedURLUsesRecordedLocation(t *testing.T) {
	db := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/sign/contact-files/contact-1/passport.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(signURLResponse{SignedURL: "/object/sign/contact-files/contact-1/passport.pdf?token=abc"})
	}))
	defer server.Close()

	cfg := &config.Config{
		StorageBaseURL:     server.URL,
		StorageBuckets:     "contact-files",
		StorageSignTTLSecs: 3600,
	}
	svc := NewStorageService(db, cfg)

	file := models.ContactFile{
		ContactID: "contact-1",
		FileName:  "passport.pdf",
		Bucket:    "contact-files",
		Path:      "contact-1/passport.pdf",
	}
	require.NoError(t, svc.RegisterContactFile(&file))

	url, err := svc.GetSignedURL(file.ID)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/object/sign/contact-files/contact-1/passport.pdf?token=abc", url)
}

func TestGetSignedURLFallsBackAcrossBuckets(t *testing.T) {
	db := newTestDB(t)

	var attempts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts = append(attempts, r.URL.Path)
		// 第一个bucket找不到对象，第二个命中
		if len(attempts) < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(signURLResponse{SignedURL: "/signed?token=xyz"})
	}))
	defer server.Close()

	cfg := &config.Config{
		StorageBaseURL:     server.URL,
		StorageBuckets:     "contact-files,documents",
		StorageSignTTLSecs: 3600,
	}
	svc := NewStorageService(db, cfg)

	// 历史数据缺少bucket记录
	file := models.ContactFile{ContactID: "contact-1", FileName: "passport.pdf"}
	require.NoError(t, svc.RegisterContactFile(&file))

	url, err := svc.GetSignedURL(file.ID)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/signed?token=xyz", url)
	assert.GreaterOrEqual(t, len(attempts), 2)
}

func TestGetSignedURLUnknownFile(t *testing.T) {
	db := newTestDB(t)
	svc := NewStorageService(db, newTestConfig())

	_, err := svc.GetSignedURL("no-such-file")
	require.Error(t, err)
	assert.Equal(t, "文档不存在", err.Error())
}
