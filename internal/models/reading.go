package models

import "time"

// SensorReading is one water-level sample. JSON keys match the columns of the
// ksqlDB stream built on top of the sensor topic.
type SensorReading struct {
	SensorID    string    `json:"SensorId"`
	WaterLevel  int       `json:"NivelAgua"`
	AlarmButton bool      `json:"Botao"`
	Timestamp   time.Time `json:"TimeStamp"`
}

// CurrentReading shares SensorID with the SensorReading of the same cycle so a
// downstream join can match them.
type CurrentReading struct {
	SensorID     string `json:"SensorId"`
	CurrentValue int    `json:"ValorCorrente"`
}
