// Package homeassistant publishes sensor states over MQTT using the
// Home Assistant discovery convention, so the entities show up without
// any YAML on the Home Assistant side.
package homeassistant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/sensor"
)

type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	cnfg   config.AppConfigMqtt

	mu         sync.Mutex
	discovered map[string]bool
}

func New(cnfg config.AppConfigMqtt) *Publisher {
	logger := slog.Default().With("module", "homeassistant")

	p := &Publisher{
		logger:     logger,
		cnfg:       cnfg,
		discovered: make(map[string]bool),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.Port))
	opts.SetClientID(cnfg.GetClientId())
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetWill(p.availabilityTopic(), "offline", 0, true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
		client.Publish(p.availabilityTopic(), 0, true, "online")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	p.client = mqtt.NewClient(opts)
	return p
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.logger.Debug("disconnecting MQTT client")
	if token := p.client.Publish(p.availabilityTopic(), 0, true, "offline"); token.Wait() && token.Error() != nil {
		p.logger.Warn("publishing offline state failed", slog.Any("error", token.Error()))
	}
	p.client.Disconnect(250)
}

// PublishStates pushes every sensor state, announcing each entity to
// Home Assistant the first time it is seen. All topics are retained so
// a restarting Home Assistant picks the entities back up on its own.
func (p *Publisher) PublishStates(states []sensor.State) {
	if !p.client.IsConnected() {
		p.logger.Debug("MQTT not connected, skipping publish")
		return
	}

	for _, s := range states {
		component, objectID, ok := splitEntityID(s.EntityID)
		if !ok {
			p.logger.Error("malformed entity id", slog.String("entityId", s.EntityID))
			continue
		}

		if err := p.ensureDiscovered(component, objectID, s); err != nil {
			p.logger.Error("publishing discovery config failed",
				slog.String("entityId", s.EntityID), slog.Any("error", err))
			continue
		}

		base := fmt.Sprintf("%s/%s/%s", p.cnfg.GetBaseTopic(), component, objectID)

		availability := "online"
		if !s.Available {
			availability = "offline"
		}
		if err := p.publish(base+"/availability", availability); err != nil {
			p.logger.Error("publishing availability failed",
				slog.String("entityId", s.EntityID), slog.Any("error", err))
			continue
		}
		if !s.Available {
			continue
		}

		if err := p.publish(base+"/state", statePayload(s)); err != nil {
			p.logger.Error("publishing state failed",
				slog.String("entityId", s.EntityID), slog.Any("error", err))
			continue
		}

		attrs, err := json.Marshal(s.Attrs)
		if err != nil {
			p.logger.Error("encoding attributes failed",
				slog.String("entityId", s.EntityID), slog.Any("error", err))
			continue
		}
		if err := p.publish(base+"/attributes", string(attrs)); err != nil {
			p.logger.Error("publishing attributes failed",
				slog.String("entityId", s.EntityID), slog.Any("error", err))
		}
	}
}

func (p *Publisher) ensureDiscovered(component, objectID string, s sensor.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.discovered[s.EntityID] {
		return nil
	}

	base := fmt.Sprintf("%s/%s/%s", p.cnfg.GetBaseTopic(), component, objectID)
	cfg := map[string]any{
		"name":                  s.Name,
		"unique_id":             fmt.Sprintf("%s_%s", p.cnfg.GetBaseTopic(), objectID),
		"object_id":             objectID,
		"state_topic":           base + "/state",
		"json_attributes_topic": base + "/attributes",
		"availability": []map[string]string{
			{"topic": p.availabilityTopic()},
			{"topic": base + "/availability"},
		},
		"availability_mode": "all",
		"device": map[string]any{
			"identifiers": []string{p.cnfg.GetBaseTopic()},
			"name":        "Czech Energy Spot Prices",
		},
	}
	if s.Icon != "" {
		cfg["icon"] = s.Icon
	}
	if s.Unit != "" {
		cfg["unit_of_measurement"] = s.Unit
	}
	if s.Binary {
		cfg["payload_on"] = "ON"
		cfg["payload_off"] = "OFF"
	} else if s.Unit != "" {
		cfg["state_class"] = "measurement"
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("%s/%s/%s/config", p.cnfg.GetDiscoveryPrefix(), component, objectID)
	if err := p.publish(topic, string(payload)); err != nil {
		return err
	}

	p.discovered[s.EntityID] = true
	return nil
}

func (p *Publisher) publish(topic, payload string) error {
	token := p.client.Publish(topic, 0, true, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) availabilityTopic() string {
	return p.cnfg.GetBaseTopic() + "/status"
}

func splitEntityID(entityID string) (component, objectID string, ok bool) {
	component, objectID, found := strings.Cut(entityID, ".")
	if !found || component == "" || objectID == "" {
		return "", "", false
	}
	return component, objectID, true
}

func statePayload(s sensor.State) string {
	if s.Binary {
		if on, _ := s.Value.(bool); on {
			return "ON"
		}
		return "OFF"
	}
	switch v := s.Value.(type) {
	case float64:
		return fmt.Sprintf("%.3f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
