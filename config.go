package gsx126x

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// BoardConfig names the SPI device and board pins.
type BoardConfig struct {
	SpiDevice string `yaml:"spi_device"`
	BusyPin   string `yaml:"busy_pin"`
	Dio1Pin   string `yaml:"dio1_pin"`
	ResetPin  string `yaml:"reset_pin"`
	TxEnPin   string `yaml:"txen_pin"`
	RxEnPin   string `yaml:"rxen_pin"`
	UseTcxo   bool   `yaml:"use_tcxo"`
}

// RxConfig mirrors the SetRxConfig parameters. Bandwidth is Hz for FSK and
// a table index for LoRa; Datarate is bits/s for FSK and the spreading
// factor for LoRa.
type RxConfig struct {
	Bandwidth      uint32 `yaml:"bandwidth"`
	Datarate       uint32 `yaml:"datarate"`
	Coderate       uint8  `yaml:"coderate"`
	BandwidthAfc   uint32 `yaml:"bandwidth_afc"`
	PreambleLength uint16 `yaml:"preamble_length"`
	SymbTimeout    uint16 `yaml:"symb_timeout"`
	FixLen         bool   `yaml:"fix_len"`
	PayloadLength  uint8  `yaml:"payload_length"`
	CrcOn          bool   `yaml:"crc_on"`
	IqInverted     bool   `yaml:"iq_inverted"`
	Continuous     bool   `yaml:"continuous"`
	Boosted        bool   `yaml:"boosted"`
	TimeoutMs      uint32 `yaml:"timeout_ms"`
}

// TxConfig mirrors the SetTxConfig parameters.
type TxConfig struct {
	Power          int8   `yaml:"power"`
	Fdev           uint32 `yaml:"fdev"`
	Bandwidth      uint32 `yaml:"bandwidth"`
	Datarate       uint32 `yaml:"datarate"`
	Coderate       uint8  `yaml:"coderate"`
	PreambleLength uint16 `yaml:"preamble_length"`
	FixLen         bool   `yaml:"fix_len"`
	CrcOn          bool   `yaml:"crc_on"`
	IqInverted     bool   `yaml:"iq_inverted"`
	TimeoutMs      uint32 `yaml:"timeout_ms"`
}

// Config is the YAML-backed radio configuration.
type Config struct {
	Board         BoardConfig `yaml:"board"`
	Modem         string      `yaml:"modem"` // "lora" or "fsk"
	Frequency     uint32      `yaml:"frequency"`
	PublicNetwork bool        `yaml:"public_network"`
	SyncWord      uint16      `yaml:"sync_word"` // 0 keeps the network default
	Rx            RxConfig    `yaml:"rx"`
	Tx            TxConfig    `yaml:"tx"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ModemType maps the modem string to a modem selector. Unknown strings fall
// back to LoRa.
func (c *Config) ModemType() Modem {
	if c.Modem == "fsk" {
		return ModemFSK
	}
	return ModemLoRa
}

// Apply pushes the full configuration into an initialized radio: network
// identity, channel, then RX and TX parameter sets.
func (c *Config) Apply(r *Radio) error {
	modem := c.ModemType()

	r.SetUseTcxo(c.Board.UseTcxo)

	if err := r.SetPublicNetwork(c.PublicNetwork); err != nil {
		return fmt.Errorf("set network: %w", err)
	}
	if c.SyncWord != 0 {
		if err := r.SetCustomSyncWord(c.SyncWord); err != nil {
			return fmt.Errorf("set sync word: %w", err)
		}
	}
	if err := r.SetChannel(c.Frequency); err != nil {
		return fmt.Errorf("set channel: %w", err)
	}

	if err := r.SetRxConfig(modem, c.Rx.Bandwidth, c.Rx.Datarate, c.Rx.Coderate,
		c.Rx.BandwidthAfc, c.Rx.PreambleLength, c.Rx.SymbTimeout,
		c.Rx.FixLen, c.Rx.PayloadLength, c.Rx.CrcOn,
		false, 0, c.Rx.IqInverted, c.Rx.Continuous); err != nil {
		return fmt.Errorf("rx config: %w", err)
	}

	if err := r.SetTxConfig(modem, c.Tx.Power, c.Tx.Fdev, c.Tx.Bandwidth,
		c.Tx.Datarate, c.Tx.Coderate, c.Tx.PreambleLength,
		c.Tx.FixLen, c.Tx.CrcOn, false, 0, c.Tx.IqInverted,
		c.Tx.TimeoutMs); err != nil {
		return fmt.Errorf("tx config: %w", err)
	}
	return nil
}
