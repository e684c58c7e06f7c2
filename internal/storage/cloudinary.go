package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
)

// ResumeStore 把简历上传到 Cloudinary 并返回可长期公开访问的 URL
// 实现了 wizard.BlobStore
type ResumeStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewResumeStore 根据配置创建 ResumeStore
// 配置不完整时返回错误，由调用方决定是否降级运行
func NewResumeStore(cfg *config.Config) (*ResumeStore, error) {
	if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
		return nil, fmt.Errorf("cloudinary 配置不完整")
	}

	cld, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		return nil, fmt.Errorf("无法初始化 cloudinary 客户端: %w", err)
	}

	return &ResumeStore{
		cld:    cld,
		folder: cfg.Cloudinary.ResumeFolder,
	}, nil
}

func (s *ResumeStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	// 简历是 PDF/DOCX，必须以 raw 资源上传，否则 Cloudinary 会当成图片处理
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		PublicID:     key,
		Folder:       s.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary 没有返回访问 URL")
	}

	return result.SecureURL, nil
}
