package store

// Message is one conversational turn. A bot message starts empty as a
// placeholder and is patched in place while the answer streams.
type Message struct {
	Id        string `json:"id"`
	SessionId string `json:"session_id"`
	FromUser  bool   `json:"from_user"`
	Text      string `json:"text"`
}

// PenalCode mirrors one row of the statute table.
type PenalCode struct {
	CodeNumber string `json:"code_number"`
	CodeType   string `json:"code_type"`
	Narrative  string `json:"narrative"`
	// Class is "M" for misdemeanor or "F" for felony.
	Class string `json:"class"`
}

// CrimeElement is the generated breakdown for one penal code: the elements
// required to prove the crime and matching CALCRIM instruction examples.
type CrimeElement struct {
	CodeNumber      string   `json:"code_number"`
	Elements        []string `json:"elements"`
	CalcrimExamples []string `json:"calcrim_examples"`
}
