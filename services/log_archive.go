package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gymdesk_go/config"
	"gymdesk_go/database"
	"gymdesk_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const archiveBatchSize = 1000

// LogArchiveService moves buffered activity logs from Redis into MySQL and
// rotates old rows out of the database into zipped S3 archives.
type LogArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
	bucket      string
}

// ArchivedLog is the row shape written into archive files. Details are
// expanded from the stored JSON blob, and the author is denormalized so the
// archive stays readable after accounts are deactivated.
type ArchivedLog struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
	Username   string         `json:"username,omitempty"`
	UserRole   string         `json:"user_role,omitempty"`
}

func NewLogArchiveService() *LogArchiveService {
	region := ""
	bucket := ""
	if config.AppConfig != nil {
		region = config.AppConfig.AWSRegion
		bucket = config.AppConfig.S3BucketName
	}

	cfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(region))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; log archiving to S3 is unavailable")
	}

	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
		bucket:      bucket,
	}
}

// FlushCachedLogsToDatabase persists Redis-buffered activity logs older than
// 24 hours into MySQL and drops them from the buffer.
func (las *LogArchiveService) FlushCachedLogsToDatabase() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	keys, err := las.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read buffered log queue: %w", err)
	}

	flushed := 0
	failed := 0
	for _, key := range keys {
		payload, err := las.redisClient.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).WithField("key", key).Error("Failed to read buffered log")
				failed++
			}
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Discarding malformed buffered log")
			failed++
			continue
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to persist buffered log")
			failed++
			continue
		}

		pipe := las.redisClient.Pipeline()
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, "logs:queue", key)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to evict flushed log from buffer")
		}
		flushed++
	}

	logrus.WithFields(logrus.Fields{
		"flushed": flushed,
		"failed":  failed,
	}).Info("Flushed buffered activity logs to database")
	return nil
}

// ArchiveOldLogs zips activity logs older than daysOld, uploads the archive
// to S3, deletes the rows, and records the archive's metadata.
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days")
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)

	entries, err := las.collectLogsBefore(cutoff)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		logrus.Info("No activity logs old enough to archive")
		return nil
	}

	fileName := fmt.Sprintf("activity_logs_%s.zip", cutoff.Format("2006-01-02"))
	archive, err := las.buildArchive(entries, fileName)
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}

	key := fmt.Sprintf("logs/archived/%d/%02d/%s", cutoff.Year(), cutoff.Month(), fileName)
	if err := las.uploadToS3(key, archive); err != nil {
		return fmt.Errorf("failed to upload archive to S3: %w", err)
	}

	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("archive uploaded but deleting archived rows failed: %w", result.Error)
	}

	logrus.WithFields(logrus.Fields{
		"s3_key":  key,
		"records": len(entries),
		"deleted": result.RowsAffected,
	}).Info("Archived old activity logs to S3")

	meta := models.LogArchive{
		FileName:    fileName,
		S3Key:       key,
		StartDate:   entries[0].CreatedAt,
		EndDate:     cutoff,
		RecordCount: len(entries),
		FileSize:    int64(archive.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&meta).Error; err != nil {
		logrus.WithError(err).Error("Failed to record archive metadata")
	}

	return nil
}

func (las *LogArchiveService) collectLogsBefore(cutoff time.Time) ([]ArchivedLog, error) {
	var out []ArchivedLog

	for offset := 0; ; offset += archiveBatchSize {
		var batch []models.ActivityLog
		err := database.DB.
			Preload("User").
			Where("created_at < ?", cutoff).
			Order("created_at ASC").
			Limit(archiveBatchSize).
			Offset(offset).
			Find(&batch).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logs for archiving: %w", err)
		}
		if len(batch) == 0 {
			return out, nil
		}

		for _, row := range batch {
			entry := ArchivedLog{
				ID:         row.ID,
				UserID:     row.UserID,
				Action:     row.Action,
				Resource:   row.Resource,
				ResourceID: row.ResourceID,
				IPAddress:  row.IPAddress,
				UserAgent:  row.UserAgent,
				CreatedAt:  row.CreatedAt,
			}
			if len(row.Details) > 0 {
				var details map[string]any
				if err := json.Unmarshal(row.Details, &details); err == nil {
					entry.Details = details
				}
			}
			if row.User.ID > 0 {
				entry.Username = row.User.Username
				entry.UserRole = row.User.Role
			}
			out = append(out, entry)
		}
	}
}

// buildArchive packs the entries into a ZIP with JSON, CSV and metadata files
func (las *LogArchiveService) buildArchive(entries []ArchivedLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	jsonFile, err := zw.Create("activity_logs.json")
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(jsonFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"export_date":    time.Now().UTC(),
		"record_count":   len(entries),
		"format_version": "1.0",
		"logs":           entries,
	}); err != nil {
		return nil, err
	}

	metaFile, err := zw.Create("metadata.json")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(metaFile).Encode(map[string]any{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(entries),
		"date_range": map[string]any{
			"start": entries[0].CreatedAt,
			"end":   entries[len(entries)-1].CreatedAt,
		},
		"schema_version": "1.0",
		"description":    "GymDesk activity log archive",
	}); err != nil {
		return nil, err
	}

	csvFile, err := zw.Create("activity_logs.csv")
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{
		"id", "user_id", "username", "role", "action", "resource",
		"resource_id", "ip_address", "user_agent", "created_at", "details",
	}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		details := ""
		if entry.Details != nil {
			if raw, err := json.Marshal(entry.Details); err == nil {
				details = string(raw)
			}
		}
		if err := w.Write([]string{
			strconv.FormatUint(uint64(entry.ID), 10),
			strconv.FormatUint(uint64(entry.UserID), 10),
			entry.Username,
			entry.UserRole,
			entry.Action,
			entry.Resource,
			strconv.FormatUint(uint64(entry.ResourceID), 10),
			entry.IPAddress,
			entry.UserAgent,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			details,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (las *LogArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	if las.awsConfig.Region == "" || las.bucket == "" {
		return fmt.Errorf("S3 archive storage not configured")
	}

	client := s3.NewFromConfig(las.awsConfig)
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(las.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	return err
}

func (las *LogArchiveService) downloadFromS3(key string) (io.ReadCloser, error) {
	if las.awsConfig.Region == "" || las.bucket == "" {
		return nil, fmt.Errorf("S3 archive storage not configured")
	}

	client := s3.NewFromConfig(las.awsConfig)
	result, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(las.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// GetArchivedLogs lists the recorded archives, newest first
func (las *LogArchiveService) GetArchivedLogs() ([]models.LogArchive, error) {
	var archives []models.LogArchive
	if err := database.DB.Order("created_at DESC").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return archives, nil
}

// DownloadArchivedLogs fetches an archive's content from S3 by its metadata ID
func (las *LogArchiveService) DownloadArchivedLogs(archiveID uint) (io.ReadCloser, string, error) {
	var archive models.LogArchive
	if err := database.DB.First(&archive, archiveID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", fmt.Errorf("archive not found")
		}
		return nil, "", fmt.Errorf("failed to load archive metadata: %w", err)
	}

	reader, err := las.downloadFromS3(archive.S3Key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download archive from S3: %w", err)
	}
	return reader, archive.FileName, nil
}
