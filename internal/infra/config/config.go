package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hilal/internal/domain"
	"hilal/internal/usecase/schedule"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	TZ          string `envconfig:"TZ"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	APIToken    string `envconfig:"API_TOKEN"`

	Location struct {
		Latitude  float64 `envconfig:"LATITUDE" default:"21.4225"`
		Longitude float64 `envconfig:"LONGITUDE" default:"39.8262"`
	} `envconfig:""`

	Calculation struct {
		Method        string `envconfig:"CALC_METHOD" default:"UmmAlQura"`
		Madhab        string `envconfig:"MADHAB" default:"Shafi"`
		HighLatRule   string `envconfig:"HIGH_LAT_RULE" default:"MiddleOfTheNight"`
		OffsetFajr    int    `envconfig:"OFFSET_FAJR"`
		OffsetSunrise int    `envconfig:"OFFSET_SUNRISE"`
		OffsetDhuhr   int    `envconfig:"OFFSET_DHUHR"`
		OffsetAsr     int    `envconfig:"OFFSET_ASR"`
		OffsetMaghrib int    `envconfig:"OFFSET_MAGHRIB"`
		OffsetIsha    int    `envconfig:"OFFSET_ISHA"`
	} `envconfig:""`

	Notifications struct {
		Enabled    bool   `envconfig:"NOTIFICATIONS_ENABLED" default:"true"`
		Language   string `envconfig:"ADHAN_LANGUAGE" default:"ar"`
		TimeFormat string `envconfig:"TIME_FORMAT" default:"12h"`
		Desktop    bool   `envconfig:"DESKTOP_NOTIFY"`
	} `envconfig:""`

	Audio struct {
		Enabled bool   `envconfig:"AUDIO_ENABLED" default:"true"`
		Muezzin string `envconfig:"MUEZZIN" default:"makkah"`
		Player  string `envconfig:"AUDIO_PLAYER" default:"mpg123"`
		Dir     string `envconfig:"AUDIO_DIR" default:"assets/audio"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID int64  `envconfig:"TG_CHAT_ID"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Queues struct {
		Events string `envconfig:"EVENTS_QUEUE_KEY" default:"hilal:events"`
	} `envconfig:""`

	Rabbit struct {
		URL           string `envconfig:"RABBIT_URL"`
		ManagementURL string `envconfig:"RABBIT_MANAGEMENT_URL"`
		Queue         string `envconfig:"RABBIT_QUEUE" default:"adhan_events"`
	} `envconfig:""`

	MQTT struct {
		Broker   string `envconfig:"MQTT_BROKER"`
		ClientID string `envconfig:"MQTT_CLIENT_ID" default:"hilald"`
		Topic    string `envconfig:"MQTT_TOPIC" default:"hilal/adhan"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения и завершает процесс при ошибке.
func Load() AppConfig {
	cfg, err := Read()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Read подгружает .env, если он есть, и разбирает окружение.
// Переменные, уже заданные в окружении, не перезаписываются.
func Read(envFiles ...string) (AppConfig, error) {
	return read(godotenv.Load, envFiles)
}

// Reload перечитывает .env поверх текущего окружения, чтобы правки файла
// применялись без перезапуска.
func Reload(envFiles ...string) (AppConfig, error) {
	return read(godotenv.Overload, envFiles)
}

func read(load func(...string) error, envFiles []string) (AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("чтение %s: %w", file, err)
		}
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Settings собирает и проверяет настройки расчёта и рассылки.
func (c AppConfig) Settings() (domain.Settings, error) {
	loc := time.Local
	if strings.TrimSpace(c.TZ) != "" {
		l, err := schedule.LoadLocation(c.TZ)
		if err != nil {
			return domain.Settings{}, err
		}
		loc = l
	}
	method, err := domain.ParseMethod(c.Calculation.Method)
	if err != nil {
		return domain.Settings{}, err
	}
	madhab, err := domain.ParseMadhab(c.Calculation.Madhab)
	if err != nil {
		return domain.Settings{}, err
	}
	rule, err := domain.ParseHighLatitudeRule(c.Calculation.HighLatRule)
	if err != nil {
		return domain.Settings{}, err
	}
	settings := domain.Settings{
		Coordinate:           domain.GeoCoordinate{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude},
		Location:             loc,
		Method:               method,
		Madhab:               madhab,
		HighLatitudeRule:     rule,
		NotificationsEnabled: c.Notifications.Enabled,
		AudioEnabled:         c.Audio.Enabled,
		Muezzin:              domain.MuezzinFor(c.Audio.Muezzin).ID,
		Language:             domain.Language(strings.ToLower(strings.TrimSpace(c.Notifications.Language))),
		TimeFormat:           domain.TimeFormat(strings.ToLower(strings.TrimSpace(c.Notifications.TimeFormat))),
	}
	settings.Offsets[domain.Fajr] = c.Calculation.OffsetFajr
	settings.Offsets[domain.Sunrise] = c.Calculation.OffsetSunrise
	settings.Offsets[domain.Dhuhr] = c.Calculation.OffsetDhuhr
	settings.Offsets[domain.Asr] = c.Calculation.OffsetAsr
	settings.Offsets[domain.Maghrib] = c.Calculation.OffsetMaghrib
	settings.Offsets[domain.Isha] = c.Calculation.OffsetIsha
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("проверка настроек: %w", err)
	}
	return settings, nil
}
