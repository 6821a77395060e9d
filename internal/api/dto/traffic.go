package dto

type TrafficRequest struct {
	Stops []StopRequest `json:"stops"`
}

type StopTrafficResponse struct {
	Stop            string  `json:"stop"`
	Level           string  `json:"level"`
	SpeedRatio      float64 `json:"speed_ratio"`
	DelayFactor     float64 `json:"delay_factor"`
	CurrentSpeedKmh float64 `json:"current_speed_kmh"`
}

type TrafficResponse struct {
	Overall string                `json:"overall"`
	Stops   []StopTrafficResponse `json:"stops"`
}
