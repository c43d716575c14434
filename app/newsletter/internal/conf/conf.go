package conf

type Bootstrap struct {
	Server     *Server
	Newsletter *Newsletter `json:"newsletter"`
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Newsletter struct {
	Llm      *LLM      `json:"llm"`
	Research *Research `json:"research"`
	Story    *Story    `json:"story"`
	Log      *Log      `json:"log"`
}

type LLM struct {
	BaseUrl       string `json:"base_url"`
	ApiKey        string `json:"api_key"`
	HeadlineModel string `json:"headline_model"`
	StoryModel    string `json:"story_model"`
}

type Research struct {
	Provider   string      `json:"provider"`
	Perplexity *Perplexity `json:"perplexity"`
	Tavily     *Tavily     `json:"tavily"`
}

type Perplexity struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
	Model   string `json:"model"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type Story struct {
	Currency string `json:"currency"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
