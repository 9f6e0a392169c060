package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/usecase"
)

const ver = "2.0"

// ErrorCode is a JSON-RPC error code, application codes are positive.
type ErrorCode int

const (
	CodeParseError     ErrorCode = -32700
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type Error struct {
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

type method struct {
	u      usecase.Interactor
	input  reflect.Type
	output reflect.Type
	// input port is a pointer type
	inputPtr bool
}

// Handler serves use case interactors as JSON-RPC 2.0 methods.
type Handler struct {
	OpenAPI *OpenAPI
	// Validator checks `validate` struct tags of decoded params.
	Validator *validator.Validate
	// Schema validates raw params and results against reflected JSON schema.
	Schema          Validator
	methods         map[string]method
	BodyLimit       int64
	ValidateResults bool
}

// Add registers use case by its name, it panics on invalid interactor.
func (h *Handler) Add(u usecase.Interactor, options ...func(ctx openapi.OperationContext) error) {
	var (
		withName   usecase.HasName
		withInput  usecase.HasInputPort
		withOutput usecase.HasOutputPort
	)

	if !usecase.As(u, &withName) {
		panic("use case name is required")
	}

	name := withName.Name()

	if h.methods == nil {
		h.methods = make(map[string]method)
	}

	if _, ok := h.methods[name]; ok {
		panic(fmt.Sprintf("duplicate method %s", name))
	}

	var m = method{u: u}

	if usecase.As(u, &withInput) && withInput.InputPort() != nil {
		m.input = reflect.TypeOf(withInput.InputPort())
		if m.input.Kind() == reflect.Pointer {
			m.input = m.input.Elem()
			m.inputPtr = true
		}
	}

	if usecase.As(u, &withOutput) && withOutput.OutputPort() != nil {
		m.output = reflect.TypeOf(withOutput.OutputPort())
		if m.output.Kind() == reflect.Pointer {
			m.output = m.output.Elem()
		}
	}

	if h.OpenAPI != nil {
		lo.Must0(h.OpenAPI.Collect(name, u, options...))
	}

	if h.Schema != nil {
		r := jsonschema.Reflector{}

		if m.input != nil {
			s := lo.Must(r.Reflect(reflect.New(m.input).Interface(), jsonschema.InlineRefs))
			lo.Must0(h.Schema.AddParamsSchema(name, lo.Must(json.Marshal(s))))
		}

		if m.output != nil {
			s := lo.Must(r.Reflect(reflect.New(m.output).Interface(), jsonschema.InlineRefs))
			lo.Must0(h.Schema.AddResultSchema(name, lo.Must(json.Marshal(s))))
		}
	}

	h.methods[name] = m
}

// Methods returns registered method names.
func (h *Handler) Methods() []string {
	names := lo.Keys(h.methods)
	slices.Sort(names)

	return names
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.BodyLimit > 0 {
		body = http.MaxBytesReader(w, r.Body, h.BodyLimit)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.write(w, http.StatusRequestEntityTooLarge, failed(nil, CodeInvalidRequest, err))
			return
		}

		h.write(w, http.StatusBadRequest, failed(nil, CodeParseError, err))
		return
	}

	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var reqs []Request
		if err := json.Unmarshal(raw, &reqs); err != nil {
			h.write(w, http.StatusOK, failed(nil, CodeParseError, err))
			return
		}

		if len(reqs) == 0 {
			h.write(w, http.StatusOK, failed(nil, CodeInvalidRequest, errors.New("empty batch")))
			return
		}

		res := make([]Response, len(reqs))
		for i, req := range reqs {
			res[i] = h.invoke(r.Context(), req)
		}

		h.write(w, http.StatusOK, res)
		return
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.write(w, http.StatusOK, failed(nil, CodeParseError, err))
		return
	}

	h.write(w, http.StatusOK, h.invoke(r.Context(), req))
}

func (h *Handler) invoke(ctx context.Context, req Request) Response {
	if req.JSONRPC != ver || req.Method == "" {
		return failed(req.ID, CodeInvalidRequest, errors.New("invalid JSON-RPC 2.0 request"))
	}

	m, ok := h.methods[req.Method]
	if !ok {
		return failed(req.ID, CodeMethodNotFound, fmt.Errorf("method %q not found", req.Method))
	}

	params := req.Params
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		params = []byte("{}")
	}

	if h.Schema != nil {
		if err := h.Schema.ValidateParams(req.Method, params); err != nil {
			return invalid(req.ID, err)
		}
	}

	var input any
	if m.input != nil {
		v := reflect.New(m.input)
		if err := json.Unmarshal(params, v.Interface()); err != nil {
			return failed(req.ID, CodeInvalidParams, err)
		}

		if h.Validator != nil && m.input.Kind() == reflect.Struct {
			if err := h.Validator.Struct(v.Interface()); err != nil {
				return invalid(req.ID, err)
			}
		}

		input = v.Interface()
		if !m.inputPtr {
			input = v.Elem().Interface()
		}
	}

	var output any
	if m.output != nil {
		output = reflect.New(m.output).Interface()
	}

	if err := m.u.Interact(ctx, input, output); err != nil {
		var withCode ErrWithAppCode
		if errors.As(err, &withCode) {
			return failed(req.ID, withCode.AppErrCode(), err)
		}

		log.Error().Err(err).Str("method", req.Method).Msg("unexpected error")

		return failed(req.ID, CodeInternalError, err)
	}

	result, err := json.Marshal(output)
	if err != nil {
		return failed(req.ID, CodeInternalError, err)
	}

	if h.Schema != nil && h.ValidateResults {
		if err := h.Schema.ValidateResult(req.Method, result); err != nil {
			return failed(req.ID, CodeInternalError, err)
		}
	}

	return Response{JSONRPC: ver, ID: req.ID, Result: result}
}

func invalid(id json.RawMessage, err error) Response {
	res := failed(id, CodeInvalidParams, err)

	var ve ValidationErrors
	if errors.As(err, &ve) {
		res.Error.Data = ve.Fields()
	}

	var fe validator.ValidationErrors
	if errors.As(err, &fe) {
		res.Error.Data = lo.Map(fe, func(item validator.FieldError, _ int) string {
			return item.Error()
		})
	}

	return res
}

func failed(id json.RawMessage, code ErrorCode, err error) Response {
	return Response{
		JSONRPC: ver,
		ID:      id,
		Error:   &Error{Code: code, Message: err.Error()},
	}
}

func (h *Handler) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

// SwguiSettings adds request and response interceptors to docs UI,
// so operations are sent as JSON-RPC calls to rpcPath.
func SwguiSettings(settingsUI map[string]string, rpcPath string) map[string]string {
	if settingsUI == nil {
		settingsUI = make(map[string]string)
	}

	settingsUI["requestInterceptor"] = `function(request) {
	if (request.loadSpec) {
		return request;
	}
	var url = window.location.protocol + '//'+ window.location.host;
	var method = request.url.substring(url.length + 1);
	request.url = url + '` + rpcPath + `';
	request.body = '{"jsonrpc": "2.0", "method": "' + method + '", "id": 1, "params": ' + (request.body || '{}') + '}';
	return request;
}`

	settingsUI["responseInterceptor"] = `function(response) {
	if (response.obj && response.obj.result !== undefined) {
		response.obj = response.obj.result;
		response.text = JSON.stringify(response.obj);
	}
	return response;
}`

	return settingsUI
}
