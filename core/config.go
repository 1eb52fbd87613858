package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	// DataConfig tells where the record tables are read from.
	DataConfig struct {
		Source          string // csv | postgres
		Dir             string
		TeachersFile    string
		StudentsFile    string
		PerformanceFile string
		CredentialsFile string
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	AuthConfig struct {
		// StaticUsers holds the Admin/Principal credential map.
		StaticUsers     map[string]string
		PasswordHashing string // plain | bcrypt
	}

	AnalyticsConfig struct {
		TrendDays         int
		TopPerformers     int
		DirectoryLimit    int
		WorklistThreshold float64
		WorklistLimit     int
		SuggestionCutoff  float64
		MaxSuggestions    int
	}

	Config struct {
		Env                string
		Build              string
		AppName            string
		Debug              bool
		TestMode           bool
		WorkDir            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		RollbarToken       string
		SendgridApiKey     string
		DefaultFromEmail   mail.Address

		Server    ServerConfig
		Data      DataConfig
		Database  DatabaseConfig
		Auth      AuthConfig
		Analytics AnalyticsConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return dbc.Host + ":" + dbc.Port
}

// Path returns the full path of one of the data files.
func (dc DataConfig) Path(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dc.Dir, file)
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "School Insights")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "School Insights <noreply@localhost>")
	v.SetDefault("jwtExpirationDelta", time.Duration(0)) // 0: sessions last until logout
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("data.source", "csv")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.teachersFile", "teachers.csv")
	v.SetDefault("data.studentsFile", "students.csv")
	v.SetDefault("data.performanceFile", "performance.csv")
	v.SetDefault("data.credentialsFile", "credentials.csv")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "school")
	v.SetDefault("database.disableTLS", false)

	v.SetDefault("auth.staticUsers", "")
	v.SetDefault("auth.passwordHashing", "plain")

	v.SetDefault("analytics.trendDays", 30)
	v.SetDefault("analytics.topPerformers", 5)
	v.SetDefault("analytics.directoryLimit", 50)
	v.SetDefault("analytics.worklistThreshold", 3.5)
	v.SetDefault("analytics.worklistLimit", 10)
	v.SetDefault("analytics.suggestionCutoff", 0.6)
	v.SetDefault("analytics.maxSuggestions", 3)
}

// NewConfig reads the configuration from defaults, `config/.env.<env>` (if it exists) and
// environment variables prefixed with the upper-cased ENV, e.g. `DEV_DATA_DIR`.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf, err := readConfig(v, env, workDir)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

func readConfig(v *viper.Viper, env, workDir string) (*Config, error) {
	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing defaultFromEmail")
	}
	staticUsers, err := ParseStaticUsers(v.GetString("auth.staticUsers"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing auth.staticUsers")
	}

	dataDir := v.GetString("data.dir")
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(workDir, dataDir)
	}

	return &Config{
		Env:                env,
		Build:              v.GetString("build"),
		AppName:            v.GetString("appName"),
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		WorkDir:            workDir,
		SecretKey:          v.GetString("secretKey"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		RollbarToken:       v.GetString("rollbarToken"),
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		DefaultFromEmail:   *from,
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Data: DataConfig{
			Source:          CleanString(v.GetString("data.source"), true /* lower */),
			Dir:             dataDir,
			TeachersFile:    v.GetString("data.teachersFile"),
			StudentsFile:    v.GetString("data.studentsFile"),
			PerformanceFile: v.GetString("data.performanceFile"),
			CredentialsFile: v.GetString("data.credentialsFile"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Auth: AuthConfig{
			StaticUsers:     staticUsers,
			PasswordHashing: CleanString(v.GetString("auth.passwordHashing"), true /* lower */),
		},
		Analytics: AnalyticsConfig{
			TrendDays:         v.GetInt("analytics.trendDays"),
			TopPerformers:     v.GetInt("analytics.topPerformers"),
			DirectoryLimit:    v.GetInt("analytics.directoryLimit"),
			WorklistThreshold: v.GetFloat64("analytics.worklistThreshold"),
			WorklistLimit:     v.GetInt("analytics.worklistLimit"),
			SuggestionCutoff:  v.GetFloat64("analytics.suggestionCutoff"),
			MaxSuggestions:    v.GetInt("analytics.maxSuggestions"),
		},
	}, nil
}

// ParseStaticUsers parses a `user:password,user2:password2` list into a credential map.
// Passwords may themselves contain ':'; only the first one separates the pair.
func ParseStaticUsers(s string) (map[string]string, error) {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.Errorf("malformed credential %q", pair)
		}
		users[parts[0]] = parts[1]
	}
	return users, nil
}
