package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Intent hasil klasifikasi AI
type Intent string

const (
	IntentQuestion  Intent = "question"
	IntentOrder     Intent = "order"
	IntentComplaint Intent = "complaint"
)

// ResultKind membedakan jawaban terstruktur, teks bebas, dan fallback
type ResultKind int

const (
	// Parsed: JSON sesuai schema
	Parsed ResultKind = iota
	// Unparsed: AI menjawab teks bebas, dipakai apa adanya sebagai reply
	Unparsed
	// Fallback: AI tidak tersedia, reply berisi pesan maaf
	Fallback
)

func (k ResultKind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case Unparsed:
		return "unparsed"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// OrderData adalah detail pesanan yang dikumpulkan AI
type OrderData struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UnmarshalJSON menerima quantity berupa angka atau string angka
func (o *OrderData) UnmarshalJSON(data []byte) error {
	var raw struct {
		Product  string          `json:"product"`
		Quantity json.RawMessage `json:"quantity"`
		Address  string          `json:"address"`
		Phone    string          `json:"phone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Product = raw.Product
	o.Address = raw.Address
	o.Phone = raw.Phone
	o.Quantity = parseQuantity(raw.Quantity)
	return nil
}

func parseQuantity(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Result adalah jawaban AI yang sudah dinormalisasi
type Result struct {
	Kind      ResultKind
	Reply     string
	Intent    Intent
	OrderData *OrderData
}

// HasOrder true kalau intent order dan payload pesanan ada
func (r Result) HasOrder() bool {
	return r.Intent == IntentOrder && r.OrderData != nil
}

var fencePattern = regexp.MustCompile("```(?:json)?\\s*")

// StripFences menghapus pembungkus markdown code block
func StripFences(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// ParseReply mengubah teks mentah dari AI menjadi Result.
// Teks yang bukan JSON valid tetap dipakai sebagai reply dengan intent question.
// JSON tanpa reply, atau jawaban kosong, menjadi Fallback supaya customer tidak
// menerima dokumen JSON atau pesan kosong.
func ParseReply(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return FallbackResult("")
	}

	var payload struct {
		Reply     string     `json:"reply"`
		Intent    string     `json:"intent"`
		OrderData *OrderData `json:"orderData"`
	}

	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return Result{Kind: Unparsed, Reply: raw, Intent: IntentQuestion}
	}
	if strings.TrimSpace(payload.Reply) == "" {
		return FallbackResult("")
	}

	intent := Intent(strings.ToLower(strings.TrimSpace(payload.Intent)))
	switch intent {
	case IntentQuestion, IntentOrder, IntentComplaint:
	default:
		intent = IntentQuestion
	}

	return Result{
		Kind:      Parsed,
		Reply:     payload.Reply,
		Intent:    intent,
		OrderData: payload.OrderData,
	}
}
