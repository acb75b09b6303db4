package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kyamanaka/vtask-cli/internal/model"
)

// ManifestName is the backup manifest kept at the vault root: a map of
// relative file path to last-modified time, used to detect which records
// changed since the last sync.
const ManifestName = "metadata_vault.json"

const s3KeyPrefix = "vault/"

// GenerateManifest walks the vault directory and records every file's
// modification time. Lock files and in-flight temp files are not part of
// the vault's durable state and are skipped.
func GenerateManifest(dir string) (map[string]string, error) {
	manifest := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("⚠️ Failed to access path: %s (%v)", path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}

		name := info.Name()
		if strings.HasSuffix(name, ".lock") || strings.HasPrefix(name, ".tmp_") {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			log.Printf("⚠️ Failed to get relative path for: %s (%v)", path, err)
			return nil
		}

		manifest[relPath] = info.ModTime().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to scan vault directory: %w", err)
	}

	return manifest, nil
}

// SaveManifest writes the manifest to the vault root.
func SaveManifest(manifestPath string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal %s: %w", ManifestName, err)
	}

	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("❌ Failed to write %s: %w", ManifestName, err)
	}

	log.Printf("✅ %s updated!", ManifestName)
	return nil
}

// LoadManifest loads a manifest, returning an empty one when the file
// does not exist yet.
func LoadManifest(manifestPath string) (map[string]string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to read %s: %w", ManifestName, err)
	}

	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("❌ Failed to parse %s: %w", ManifestName, err)
	}

	return manifest, nil
}

func UploadManifestToS3(s3Client *s3.Client, config model.Config) error {
	manifestPath := filepath.Join(config.VaultDir, ManifestName)
	s3Key := s3KeyPrefix + ManifestName

	file, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open %s: %w", manifestPath, err)
	}
	defer file.Close()

	log.Printf("🔄 Uploading %s to S3...", s3Key)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", s3Key, err)
	}

	log.Printf("✅ %s uploaded to S3!", s3Key)
	return nil
}

func DownloadManifestFromS3(s3Client *s3.Client, config model.Config) (map[string]string, error) {
	manifestPath := filepath.Join(config.VaultDir, ManifestName)
	s3Key := s3KeyPrefix + ManifestName

	resp, err := s3Client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			log.Printf("⚠️ No %s found on S3, returning empty manifest.", s3Key)
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to read %s from S3: %w", s3Key, err)
	}

	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return nil, fmt.Errorf("❌ Failed to save %s: %w", manifestPath, err)
	}

	log.Printf("✅ %s downloaded from S3!", s3Key)

	return LoadManifest(manifestPath)
}

// DetectChanges compares two manifests and returns the files to sync in
// the given direction ("s3" = pull newer remote files, "local" = push
// newer local files).
func DetectChanges(localManifest, remoteManifest map[string]string, source string) []string {
	var filesToSync []string

	for file, remoteTimeStr := range remoteManifest {
		if file == ManifestName {
			continue
		}

		localTimeStr, exists := localManifest[file]
		if !exists {
			if source == "s3" {
				log.Printf("📌 File missing locally, adding to sync (pull): %s", file)
				filesToSync = append(filesToSync, file)
			}
			continue
		}

		remoteTime, err := time.Parse(time.RFC3339, remoteTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse remote timestamp for %s: %v", file, err)
			continue
		}

		localTime, err := time.Parse(time.RFC3339, localTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse local timestamp for %s: %v", file, err)
			continue
		}

		if source == "s3" && remoteTime.After(localTime.Add(1*time.Second)) {
			log.Printf("📌 Newer version on S3, adding to sync (pull): %s", file)
			filesToSync = append(filesToSync, file)
		}

		if source == "local" && localTime.After(remoteTime.Add(1*time.Second)) {
			log.Printf("📌 Newer version locally, adding to sync (push): %s", file)
			filesToSync = append(filesToSync, file)
		}
	}

	// Files present locally but missing on S3 are pushed.
	if source == "local" {
		for file := range localManifest {
			if file == ManifestName {
				continue
			}
			if _, exists := remoteManifest[file]; !exists {
				log.Printf("📌 File missing on S3, adding to sync (push): %s", file)
				filesToSync = append(filesToSync, file)
			}
		}
	}

	return filesToSync
}

// SyncFiles transfers the listed vault files in the given direction.
func SyncFiles(s3Client *s3.Client, config model.Config, direction string, files []string) error {
	for _, relPath := range files {
		localPath := filepath.Join(config.VaultDir, relPath)
		s3Key := s3KeyPrefix + filepath.ToSlash(relPath)

		switch direction {
		case "pull":
			if err := DownloadFromS3(s3Client, config.Sync.Bucket, s3Key, localPath); err != nil {
				return err
			}
		case "push":
			if err := UploadToS3(s3Client, config.Sync.Bucket, localPath, s3Key); err != nil {
				return err
			}
		default:
			return fmt.Errorf("❌ Invalid sync direction: %s", direction)
		}
	}
	return nil
}
