package domain

import "encoding/json"

// InternalCommand - команда рендерера, разобранная до CommandType.
type InternalCommand struct {
	Type    CommandType
	Client  string          // ID подключения, откуда пришла команда
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
