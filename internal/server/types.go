package server

// TranslateRequest is the body of POST /v1/translate
type TranslateRequest struct {
	Text  string `json:"text"`
	Route string `json:"route"`
}

// HopResponse describes one executed hop
type HopResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Package   string `json:"package"`
	Tokenizer string `json:"tokenizer"`
	Output    string `json:"output"`
}

// TranslateResponse is the result of POST /v1/translate
type TranslateResponse struct {
	ID    string        `json:"id"`
	Text  string        `json:"text"`
	Route []string      `json:"route"`
	Hops  []HopResponse `json:"hops"`
}

// Language is an installed language code with its English name
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Pair is an installed package
type Pair struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Package string `json:"package"`
}

// LanguagesResponse is the result of GET /v1/languages
type LanguagesResponse struct {
	Languages []Language `json:"languages"`
	Pairs     []Pair     `json:"pairs"`
}

// RouteResponse is the result of GET /v1/route
type RouteResponse struct {
	Route []string `json:"route"`
	Hops  int      `json:"hops"`
}

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
