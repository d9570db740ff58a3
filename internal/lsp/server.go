package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/inkwell-labs/journalint/internal/cli/config"
	"github.com/inkwell-labs/journalint/pkg/session"
)

// Server implements the Language Server Protocol for journalint.
type Server struct {
	// Document management
	documents *DocumentStore

	// Engine wiring. engineCfg is assembled from the vault's
	// journalint.yaml at initialize; sessions holds one validation
	// session per open journal document.
	engineCfg  session.Config
	sessions   map[string]*session.Session
	sessionsMu sync.Mutex

	// Vault context
	vaultRoot   string
	configFile  string
	configErr   error
	initialized bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	// Logging
	logger *slog.Logger

	// Shutdown state
	shutdown   bool
	shutdownMu sync.RWMutex
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer) *Server {
	return NewServerWithLogger(reader, writer, nil)
}

// NewServerWithLogger creates a new LSP server instance with a custom
// logger. The logger must not write to the writer; stdout carries only
// protocol frames.
func NewServerWithLogger(reader io.Reader, writer io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Server{
		documents: NewDocumentStore(),
		engineCfg: engineConfig(&config.Config{}, logger),
		sessions:  make(map[string]*session.Session),
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
}

// engineConfig assembles the validation engine's configuration from
// the host config.
func engineConfig(cfg *config.Config, logger *slog.Logger) session.Config {
	return session.Config{
		Structure: cfg.StructureConfig(),
		Isolation: cfg.IsolationConfig(),
		Lint:      cfg.LintConfig(),
		Debounce:  cfg.DebouncePeriod(),
		Logger:    logger,
	}
}

// Run starts the server's main loop, processing JSON-RPC messages.
func (s *Server) Run() error {
	s.logger.Info("journalint LSP server starting...")

	for {
		s.shutdownMu.RLock()
		if s.shutdown {
			s.shutdownMu.RUnlock()
			return nil
		}
		s.shutdownMu.RUnlock()

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("Client disconnected")
				return nil
			}
			s.logger.Error("Error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("Error handling message", "error", err)
		}
	}
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	// Read headers
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}

		if strings.HasPrefix(line, "Content-Length: ") {
			lengthStr := strings.TrimPrefix(line, "Content-Length: ")
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	// Read body
	body := make([]byte, contentLength)
	_, err := io.ReadFull(s.reader, body)
	if err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	// Parse message
	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, err *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if err != nil {
		msg.Error = err
	} else {
		resultBytes, _ := json.Marshal(result)
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, _ := json.Marshal(params)
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
// Serialized through writeMu because session callbacks publish from
// their own goroutines.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	_, _ = s.writer.Write([]byte(header))
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Info("Received", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if msg.ID != nil {
			// Unknown method with ID - respond with method not found
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    -32601,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	s.vaultRoot = URIToPath(params.RootURI)
	s.logger.Info("Vault root", "path", s.vaultRoot)

	s.loadVaultConfig()

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"[", "!", " "},
			},
			HoverProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindQuickFix},
			},
		},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

// loadVaultConfig builds the engine configuration from the vault's
// journalint.yaml. Without one, or when it fails to load, the built-in
// defaults apply so diagnostics keep working.
func (s *Server) loadVaultConfig() {
	s.configFile = ""
	s.configErr = nil
	if s.vaultRoot == "" {
		return
	}

	path := config.FindConfigFile(s.vaultRoot)
	if path == "" {
		return
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		s.configErr = err
		s.logger.Warn("Config file rejected, using defaults", "path", path, "error", err)
		return
	}

	s.configFile = path
	s.engineCfg = engineConfig(cfg, s.logger)
	s.logger.Info("Loaded vault config", "path", path,
		"structures", len(s.engineCfg.Structure.Structures))
}

func (s *Server) handleInitialized(_ *JSONRPCMessage) error {
	s.initialized = true
	s.logger.Info("Server initialized")

	switch {
	case s.configErr != nil:
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: fmt.Sprintf("journalint.yaml could not be loaded (%v). Validating with built-in defaults.", s.configErr),
		})
	case s.configFile == "":
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeInfo,
			Message: "No journalint.yaml found. Validating with the built-in dream-journal structure.",
		})
	}

	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()

	s.closeAllSessions()

	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("Server shutdown")
	return nil
}

func (s *Server) handleExit(_ *JSONRPCMessage) error {
	s.logger.Info("Server exit")
	os.Exit(0)
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Info("Opened", "uri", params.TextDocument.URI)

	s.validate(params.TextDocument.URI)

	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	s.closeSession(uri)
	globalFixCache.clearURI(uri)
	s.documents.Close(uri)
	s.logger.Info("Closed", "uri", uri)

	// Clear diagnostics
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})

	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// We use full sync, so take the last change
	if len(params.ContentChanges) > 0 {
		lastChange := params.ContentChanges[len(params.ContentChanges)-1]
		s.documents.Update(params.TextDocument.URI, lastChange.Text, params.TextDocument.Version)
	}

	// Debounced: bursts of keystrokes collapse into one validation run
	s.scheduleValidate(params.TextDocument.URI)

	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	s.logger.Info("Saved", "path", URIToPath(uri))

	// The save notification may carry the saved text; trust it over
	// whatever didChange last delivered.
	if params.Text != "" {
		if doc := s.documents.Get(uri); doc != nil {
			s.documents.Update(uri, params.Text, doc.Version)
		}
	}

	s.validate(uri)

	return nil
}

// --- Feature handlers ---

func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	items := s.getCompletions(params)
	s.sendResponse(msg.ID, &CompletionList{Items: items}, nil)
	return nil
}

func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	hover := s.getHover(params)
	s.sendResponse(msg.ID, hover, nil)
	return nil
}

// --- Session management ---

// sessionFor returns the document's validation session, creating it on
// first use. The session's result callback publishes diagnostics, so
// synchronous and debounced runs share one publish path.
func (s *Server) sessionFor(uri string) *session.Session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if s.sessions == nil {
		s.sessions = make(map[string]*session.Session)
	}
	if sess, ok := s.sessions[uri]; ok {
		return sess
	}

	cfg := s.engineCfg
	cfg.OnResult = func(res session.Result) {
		s.publishResult(uri, res)
	}
	sess := session.New(cfg)
	s.sessions[uri] = sess
	return sess
}

// closeSession discards the document's session, cancelling any pending
// debounced run.
func (s *Server) closeSession(uri string) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if sess, ok := s.sessions[uri]; ok {
		sess.Close()
		delete(s.sessions, uri)
	}
}

func (s *Server) closeAllSessions() {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	for uri, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, uri)
	}
}
