package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// Success is the save-style envelope: {"success": true, "data": ...}.
func Success(value any) Envelope {
	return Envelope{"success": true, "data": value}
}
