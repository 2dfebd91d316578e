package provider_test

import (
	"bytes"
	"io"
	"net/http"

	"github.com/petasbytes/csv-agent/memory"
)

type capture struct {
	method string
	url    string
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// pairedHistory is one completed tool round: two calls, answered in order.
func pairedHistory() []memory.Message {
	return []memory.Message{
		memory.UserMessage("analyze this"),
		memory.ModelMessage("checking", []memory.ToolCall{
			{ID: "t1", Name: "analyze_csv_data", Arguments: map[string]any{"query": "summary"}},
			{ID: "t2", Name: "filter_data", Arguments: map[string]any{"column_name": "score", "operator": ">", "value": "80"}},
		}),
		memory.ToolResultMessage("t1", "analyze_csv_data", "CSV contains 3 rows and 2 columns.", false),
		memory.ToolResultMessage("t2", "filter_data", "Error: boom", true),
	}
}
