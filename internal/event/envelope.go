package event

import "encoding/json"

// Envelope — тело исходящей отправки батча.
//
//	{"messages":[{"statement":"s1","event":[{"SID":"V1","timestamp":"...","value":13.7}]}]}
type Envelope struct {
	Messages []Statement `json:"messages"`
}

// Statement содержит события одного statement в порядке поступления.
type Statement struct {
	Statement string        `json:"statement"`
	Event     []SensorEvent `json:"event"`
}

// NewEnvelope группирует батч по StatementName.
// Statement идут в порядке первого появления, события внутри в порядке батча.
func NewEnvelope(batch []SensorEvent) Envelope {
	env := Envelope{Messages: make([]Statement, 0, 1)}
	index := make(map[string]int, 1)

	for _, e := range batch {
		i, ok := index[e.StatementName]
		if !ok {
			i = len(env.Messages)
			index[e.StatementName] = i
			env.Messages = append(env.Messages, Statement{Statement: e.StatementName})
		}
		env.Messages[i].Event = append(env.Messages[i].Event, e)
	}

	return env
}

// EncodeBatch возвращает JSON конверта для батча.
func EncodeBatch(batch []SensorEvent) ([]byte, error) {
	return json.Marshal(NewEnvelope(batch))
}
