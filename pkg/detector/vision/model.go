package vision

type BatchResponse struct {
	Responses []AnnotateResponse `json:"responses"`
}

type AnnotateResponse struct {
	FullTextAnnotation *TextAnnotation `json:"fullTextAnnotation"`

	Error *Status `json:"error"`
}

type ErrorResponse struct {
	Error *Status `json:"error"`
}

// Status is the vendor error shape, embedded both in non-2xx bodies and in
// per-image responses inside a 2xx envelope.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type TextAnnotation struct {
	Text string `json:"text"`

	Pages []Page `json:"pages"`
}

type Page struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Blocks []Block `json:"blocks"`
}

type Block struct {
	BlockType string `json:"blockType"`

	BoundingBox *BoundingPoly `json:"boundingBox"`
	Paragraphs  []Paragraph   `json:"paragraphs"`
}

type Paragraph struct {
	BoundingBox *BoundingPoly `json:"boundingBox"`
	Words       []Word        `json:"words"`
}

type Word struct {
	BoundingBox *BoundingPoly `json:"boundingBox"`
	Symbols     []Symbol      `json:"symbols"`
}

type Symbol struct {
	Text string `json:"text"`

	Property *TextProperty `json:"property"`
}

type TextProperty struct {
	DetectedBreak *DetectedBreak `json:"detectedBreak"`
}

// DetectedBreak marks whitespace following a symbol: SPACE, SURE_SPACE,
// EOL_SURE_SPACE, LINE_BREAK or HYPHEN.
type DetectedBreak struct {
	Type string `json:"type"`
}

type BoundingPoly struct {
	Vertices []Vertex `json:"vertices"`
}

type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
