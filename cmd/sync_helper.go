package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kyamanaka/vtask-cli/internal/model"
	"github.com/kyamanaka/vtask-cli/internal/util"
)

// SyncWithS3 reconciles the local vault with the S3 backup in the given
// direction ("push" or "pull") using the modtime manifest.
func SyncWithS3(config model.Config, direction string) error {
	if !config.Sync.Enable {
		return fmt.Errorf("❌ S3 sync is disabled in config")
	}

	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	manifestPath := filepath.Join(config.VaultDir, util.ManifestName)

	if direction == "pull" {
		log.Println("🔄 Downloading manifest from S3...")

		remoteManifest, err := util.DownloadManifestFromS3(s3Client, config)
		if err != nil {
			return fmt.Errorf("❌ Failed to download manifest from S3: %w", err)
		}

		localManifest, _ := util.LoadManifest(manifestPath)

		diff := util.DetectChanges(localManifest, remoteManifest, "s3")
		if len(diff) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Downloading changed files from S3...")
			if err := util.SyncFiles(s3Client, config, "pull", diff); err != nil {
				return fmt.Errorf("❌ Sync failed: %w", err)
			}
		}

		log.Println("🔄 Saving updated manifest...")
		if err := util.SaveManifest(manifestPath, remoteManifest); err != nil {
			return fmt.Errorf("❌ Failed to save manifest: %w", err)
		}

		log.Println("✅ Sync completed successfully.")
		return nil

	} else if direction == "push" {
		log.Println("🔄 Generating manifest for push...")

		localManifest, err := util.GenerateManifest(config.VaultDir)
		if err != nil {
			return fmt.Errorf("❌ Failed to generate manifest: %w", err)
		}

		if err := util.SaveManifest(manifestPath, localManifest); err != nil {
			return fmt.Errorf("❌ Failed to save manifest: %w", err)
		}

		remoteManifest, err := util.DownloadManifestFromS3(s3Client, config)
		if err != nil {
			return fmt.Errorf("❌ Failed to download manifest from S3: %w", err)
		}

		diff := util.DetectChanges(localManifest, remoteManifest, "local")
		if len(diff) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Uploading changed files to S3...")
			if err := util.SyncFiles(s3Client, config, "push", diff); err != nil {
				return fmt.Errorf("❌ Sync failed: %w", err)
			}
		}

		if err := util.UploadManifestToS3(s3Client, config); err != nil {
			return fmt.Errorf("❌ Failed to upload manifest to S3: %w", err)
		}

		log.Println("✅ Sync completed successfully.")
		return nil
	}

	return fmt.Errorf("❌ Invalid sync direction: %s", direction)
}

// ShowSyncStatus prints the files that would transfer in each direction.
func ShowSyncStatus(config model.Config) error {
	if !config.Sync.Enable {
		return fmt.Errorf("❌ S3 sync is disabled in config")
	}

	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	localManifest, err := util.GenerateManifest(config.VaultDir)
	if err != nil {
		return fmt.Errorf("❌ Failed to generate manifest: %w", err)
	}

	remoteManifest, err := util.DownloadManifestFromS3(s3Client, config)
	if err != nil {
		return fmt.Errorf("❌ Failed to download manifest from S3: %w", err)
	}

	toPush := util.DetectChanges(localManifest, remoteManifest, "local")
	toPull := util.DetectChanges(localManifest, remoteManifest, "s3")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"File", "Direction"})
	for _, file := range toPush {
		t.AppendRow(table.Row{file, "push"})
	}
	for _, file := range toPull {
		t.AppendRow(table.Row{file, "pull"})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(toPush) == 0 && len(toPull) == 0 {
		fmt.Println("✅ Local vault and S3 are in sync.")
	}
	return nil
}
