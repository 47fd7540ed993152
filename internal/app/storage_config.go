package app

import (
	"strings"

	"github.com/charlesng35/storeadmin/internal/images"
)

const defaultImageDir = "assets/uploads/categories"

// ImageStoreConfig converts the image settings into a local store configuration.
// The router serves <Root>/assets at /assets, so URLs share the server base URL.
func (c Config) ImageStoreConfig() images.LocalConfig {
	root := strings.TrimSpace(c.Storage.Images.Root)
	if root == "" {
		root = "."
	}
	return images.LocalConfig{
		Root:    root,
		BaseURL: strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/"),
	}
}

// ImagePolicy returns the upload restrictions for category images.
func (c StorageConfig) ImagePolicy() images.Policy {
	policy := images.DefaultPolicy()
	if c.Images.MaxSize > 0 {
		policy.MaxSize = c.Images.MaxSize
	}

	var exts []string
	for _, ext := range c.Images.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) > 0 {
		policy.Extensions = exts
	}
	return policy
}

// ImageDir is the directory, relative to the image root, that category images are written to.
func (c StorageConfig) ImageDir() string {
	dir := strings.Trim(strings.TrimSpace(c.Images.Dir), "/")
	if dir == "" {
		return defaultImageDir
	}
	return dir
}
