package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/ecohome/internal/config"
	"github.com/jgoulah/ecohome/internal/greenscore"
	"github.com/jgoulah/ecohome/pkg/models"
)

// Publisher pushes green score snapshots to Home Assistant and MQTT
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// Snapshot is one household's score at a point in time
type Snapshot struct {
	Household models.Household
	Result    greenscore.Result
	Tips      []string
	At        time.Time
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(cfg *config.Config) (*Publisher, error) {
	mqttCfg, haCfg := cfg.MQTT, cfg.HomeAssistant
	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, fmt.Errorf("neither Home Assistant nor MQTT is enabled in config")
	}

	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("ecohome")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.GetTopicPrefix(),
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// HAState matches the Home Assistant POST /api/states/<entity_id> body
type HAState struct {
	State      string       `json:"state"`
	Attributes HAAttributes `json:"attributes"`
}

// HAAttributes are the extra sensor attributes shown in Home Assistant
type HAAttributes struct {
	FriendlyName      string   `json:"friendly_name"`
	UnitOfMeasurement string   `json:"unit_of_measurement"`
	WaterScore        float64  `json:"water_score"`
	EnergyScore       float64  `json:"energy_score"`
	Postcode          string   `json:"postcode"`
	Tips              []string `json:"tips,omitempty"`
	LastUpdated       string   `json:"last_updated"`
}

// MQTTMessage is the retained payload published on <prefix>/<household id>/score
type MQTTMessage struct {
	HouseholdID int64    `json:"household_id"`
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	WaterScore  float64  `json:"water_score"`
	EnergyScore float64  `json:"energy_score"`
	Tips        []string `json:"tips,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

// PublishScore sends a snapshot to every enabled destination
func (p *Publisher) PublishScore(ctx context.Context, snap Snapshot) error {
	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, snap); err != nil {
			return fmt.Errorf("publishing to Home Assistant: %w", err)
		}
	}
	if p.client != nil {
		if err := p.publishMQTT(snap); err != nil {
			return fmt.Errorf("publishing to MQTT: %w", err)
		}
	}
	return nil
}

// EntityID returns the Home Assistant entity a household's score is written to
func (p *Publisher) EntityID(householdID int64) string {
	if p.haConfig.EntityID != "" {
		return p.haConfig.EntityID
	}
	return fmt.Sprintf("sensor.ecohome_%d_green_score", householdID)
}

// Topic returns the MQTT topic a household's score is published on
func (p *Publisher) Topic(householdID int64) string {
	return fmt.Sprintf("%s/%d/score", p.topicPrefix, householdID)
}

func (p *Publisher) publishHA(ctx context.Context, snap Snapshot) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.EntityID(snap.Household.ID))

	payload := HAState{
		State: fmt.Sprintf("%d", snap.Result.Score),
		Attributes: HAAttributes{
			FriendlyName:      fmt.Sprintf("%s green score", snap.Household.Name),
			UnitOfMeasurement: "points",
			WaterScore:        snap.Result.WaterScore,
			EnergyScore:       snap.Result.EnergyScore,
			Postcode:          snap.Household.Postcode,
			Tips:              snap.Tips,
			LastUpdated:       snap.At.Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// HA answers 201 for a new entity and 200 for an update
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (p *Publisher) publishMQTT(snap Snapshot) error {
	msg := MQTTMessage{
		HouseholdID: snap.Household.ID,
		Name:        snap.Household.Name,
		Score:       snap.Result.Score,
		WaterScore:  snap.Result.WaterScore,
		EnergyScore: snap.Result.EnergyScore,
		Tips:        snap.Tips,
		Timestamp:   snap.At.Format(time.RFC3339),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	token := p.client.Publish(p.Topic(snap.Household.ID), 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timed out waiting for broker acknowledgement")
	}
	return token.Error()
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
