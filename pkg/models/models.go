package models

// ConvertRequest представляет запрос на конвертацию текста в речь
type ConvertRequest struct {
	Text      string  `json:"text"`
	VoiceName string  `json:"voiceName"`
	Speed     float64 `json:"speed"`
}

// WithDefaults подставляет голос и скорость по умолчанию для пустых значений.
// Нулевая скорость считается отсутствующей, отрицательная передается движку как есть.
func (r ConvertRequest) WithDefaults(voice string, speed float64) ConvertRequest {
	if r.VoiceName == "" {
		r.VoiceName = voice
	}
	if r.Speed == 0 {
		r.Speed = speed
	}
	return r
}

// VoicesResponse ответ со списком голосов
type VoicesResponse struct {
	Status    bool     `json:"status"`
	VoiceName []string `json:"voiceName"`
}

// ConvertResponse ответ на успешную конвертацию
type ConvertResponse struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
}

// MessageResponse ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}
