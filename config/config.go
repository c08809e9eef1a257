package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWT
	JWTSecret    string
	JWTExpiresIn time.Duration

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3BucketName       string

	// Server
	Port   string
	AppEnv string

	// File Upload
	MaxFileSize int64

	// Logging
	LogLevel string
	LogFile  string

	// Behaviour toggles
	ScheduleStrictOverlap bool // reject any overlapping schedule on the same day, not just same-named ones
	SkipMigrate           bool
}

func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

var AppConfig *Config

// LoadConfig populates AppConfig from AWS SSM Parameter Store when USE_SSM is
// set, otherwise from a .env file and the process environment. SSM keys live
// under SSM_BASE_PATH/<stage>, named after the env keys below.
func LoadConfig() {
	useSSM := getEnv("USE_SSM", "false") == "true"

	var params map[string]string
	if useSSM {
		base := strings.TrimRight(getEnv("SSM_BASE_PATH", "/gymdesk"), "/")
		stage := getEnv("STAGE", getEnv("APP_ENV", "production"))
		prefix := base + "/" + stage
		log.Printf("Using AWS SSM Parameter Store (prefix=%s)", prefix)
		params = fetchSSMParameters(prefix)
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using environment variables")
		}
	}

	getVal := func(key, def string) string {
		if v, ok := params[key]; ok && v != "" {
			return v
		}
		return getEnv(key, def)
	}

	jwtExpires, err := parseTokenLifetime(getVal("ACCESS_TOKEN_EXPIRES_IN", "30m"))
	if err != nil {
		log.Fatal("Invalid ACCESS_TOKEN_EXPIRES_IN format:", err)
	}

	maxFileSize, err := strconv.ParseInt(getVal("MAX_FILE_SIZE", "10485760"), 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_FILE_SIZE format:", err)
	}

	AppConfig = &Config{
		DBHost:     getVal("DB_HOST", "localhost"),
		DBPort:     getVal("DB_PORT", "3306"),
		DBUser:     getVal("DB_USER", "root"),
		DBPassword: getVal("DB_PASSWORD", ""),
		DBName:     getVal("DB_NAME", "gymdesk_go"),

		RedisHost:     getVal("REDIS_HOST", "localhost"),
		RedisPort:     getVal("REDIS_PORT", "6379"),
		RedisPassword: getVal("REDIS_PASSWORD", ""),

		JWTSecret:    getVal("SECRET_KEY", "your-secret-key-here-change-in-production"),
		JWTExpiresIn: jwtExpires,

		AWSRegion:          getVal("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getVal("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getVal("AWS_SECRET_ACCESS_KEY", ""),
		S3BucketName:       getVal("S3_BUCKET_NAME", "gymdesk-storage"),

		Port:   getVal("PORT", "8000"),
		AppEnv: getVal("APP_ENV", "development"),

		MaxFileSize: maxFileSize,

		LogLevel: getVal("LOG_LEVEL", "info"),
		LogFile:  getVal("LOG_FILE", "logs/app.log"),

		ScheduleStrictOverlap: strings.ToLower(getVal("SCHEDULE_STRICT_OVERLAP", "false")) == "true",
		SkipMigrate:           strings.ToLower(getVal("SKIP_MIGRATE", "false")) == "true",
	}

	validateConfig(AppConfig, useSSM)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseTokenLifetime accepts Go durations plus "7d"/"2w" shorthand
func parseTokenLifetime(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err == nil {
		return d, nil
	}

	s := strings.TrimSpace(strings.ToLower(raw))
	if len(s) > 1 {
		if n, convErr := strconv.Atoi(s[:len(s)-1]); convErr == nil {
			switch s[len(s)-1] {
			case 'd':
				return time.Duration(n) * 24 * time.Hour, nil
			case 'w':
				return time.Duration(n*7) * 24 * time.Hour, nil
			}
		}
	}
	return 0, err
}

// fetchSSMParameters walks the parameter tree under prefix and keys the
// values by their UPPERCASE leaf name, matching the env variable names.
func fetchSSMParameters(prefix string) map[string]string {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(getEnv("AWS_REGION", "us-east-1"))})
	if err != nil {
		log.Fatal("Failed to create AWS session:", err)
	}
	client := ssm.New(sess)

	out := make(map[string]string)
	var next *string
	for {
		resp, err := client.GetParametersByPath(&ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			WithDecryption: aws.Bool(true),
			Recursive:      aws.Bool(true),
			NextToken:      next,
		})
		if err != nil {
			log.Printf("Warning: unable to fetch SSM parameters for prefix %s: %v", prefix, err)
			return out
		}

		for _, p := range resp.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			leaf := (*p.Name)[strings.LastIndex(*p.Name, "/")+1:]
			if leaf == "" {
				continue
			}
			out[strings.ToUpper(leaf)] = *p.Value
		}

		if resp.NextToken == nil || *resp.NextToken == "" {
			return out
		}
		next = resp.NextToken
	}
}

func validateConfig(c *Config, usedSSM bool) {
	// Only enforce stricter rules in production
	if strings.ToLower(c.AppEnv) != "production" {
		return
	}
	required := map[string]string{
		"DB_PASSWORD": c.DBPassword,
		"SECRET_KEY":  c.JWTSecret,
	}
	for k, v := range required {
		if strings.TrimSpace(v) == "" {
			log.Fatalf("Missing required secret %s in production (SSM=%v)", k, usedSSM)
		}
	}
	if len(c.JWTSecret) < 16 {
		log.Fatal("SECRET_KEY too short (min 16 chars)")
	}
}
