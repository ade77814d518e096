package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"scribe/internal/batch"
	"scribe/internal/catalog"
	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/services"
)

// Server exposes the toolkit via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger.With(slog.String(logging.FieldComponent, "ipc")), ctx: serverCtx}
	if err := rpcServer.RegisterName("Scribe", srv); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", slog.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", slog.Any("error", err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket", slog.String("socket", s.path), slog.Any("error", err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.StartedAt = status.StartedAt
	resp.AudioDir = status.AudioDir
	resp.SocketPath = status.SocketPath
	resp.LockPath = status.LockPath
	resp.CacheEntries = status.CacheEntries
	resp.Transcriber = status.Transcriber
	return nil
}

func (s *service) CacheReset(_ CacheResetRequest, resp *CacheResetResponse) error {
	s.daemon.ResetCache()
	resp.Reset = true
	return nil
}

func (s *service) List(req ListRequest, resp *ListResponse) error {
	filter, order, err := listSpecs(req)
	if err != nil {
		return err
	}
	files, err := s.daemon.Toolkit().List(s.ctx, filter, order)
	if err != nil {
		return err
	}
	resp.Files = make([]FileRecord, 0, len(files))
	for _, file := range files {
		resp.Files = append(resp.Files, fileRecord(file))
	}
	return nil
}

func (s *service) Latest(_ LatestRequest, resp *LatestResponse) error {
	file, err := s.daemon.Toolkit().Latest(s.ctx)
	if err != nil {
		return err
	}
	resp.File = fileRecord(file)
	return nil
}

func (s *service) Convert(req ConvertRequest, resp *ConvertResponse) error {
	if len(req.Paths) == 0 {
		return services.Wrap(services.ErrValidation, "", "convert", "at least one path is required", nil)
	}
	s.logger.Debug("convert requested", slog.Int("files", len(req.Paths)), slog.String("target", req.Target))
	results, err := s.daemon.Toolkit().ConvertAll(s.ctx, req.Paths, req.Target)
	if err != nil {
		return err
	}
	resp.Results = transformOutcomes(results)
	return nil
}

func (s *service) Compress(req CompressRequest, resp *CompressResponse) error {
	if len(req.Paths) == 0 {
		return services.Wrap(services.ErrValidation, "", "compress", "at least one path is required", nil)
	}
	s.logger.Debug("compress requested", slog.Int("files", len(req.Paths)), slog.Int64("ceiling_bytes", req.CeilingBytes))
	resp.Results = transformOutcomes(s.daemon.Toolkit().CompressAll(s.ctx, req.Paths, req.CeilingBytes))
	return nil
}

func (s *service) Transcribe(req TranscribeRequest, resp *TranscribeResponse) error {
	if len(req.Paths) == 0 {
		return services.Wrap(services.ErrValidation, "", "transcribe", "at least one path is required", nil)
	}
	s.logger.Debug("transcribe requested", slog.Int("files", len(req.Paths)))
	resp.Results = transcriptOutcomes(s.daemon.Toolkit().TranscribeAll(s.ctx, req.Paths))
	return nil
}

func (s *service) TranscribePrompted(req TranscribePromptedRequest, resp *TranscribeResponse) error {
	if len(req.Paths) == 0 {
		return services.Wrap(services.ErrValidation, "", "transcribe_prompted", "at least one path is required", nil)
	}
	s.logger.Debug("prompted transcribe requested", slog.Int("files", len(req.Paths)))
	resp.Results = transcriptOutcomes(s.daemon.Toolkit().TranscribeAllWithPrompt(s.ctx, req.Paths, req.Prompt))
	return nil
}

func (s *service) TranscribeEnhanced(req TranscribeEnhancedRequest, resp *TranscribeResponse) error {
	if len(req.Paths) == 0 {
		return services.Wrap(services.ErrValidation, "", "transcribe_enhanced", "at least one path is required", nil)
	}
	s.logger.Debug("enhanced transcribe requested", slog.Int("files", len(req.Paths)), slog.String("template", req.Template))
	results, err := s.daemon.Toolkit().TranscribeAllWithEnhancement(s.ctx, req.Paths, req.Template)
	if err != nil {
		return err
	}
	resp.Results = transcriptOutcomes(results)
	return nil
}

func listSpecs(req ListRequest) (catalog.FilterSpec, catalog.SortSpec, error) {
	filter := catalog.FilterSpec{
		Pattern:            req.Pattern,
		MinSizeBytes:       req.MinSizeBytes,
		MaxSizeBytes:       req.MaxSizeBytes,
		MinDurationSeconds: req.MinDurationSeconds,
		MaxDurationSeconds: req.MaxDurationSeconds,
		ModifiedAfter:      req.ModifiedAfter,
		ModifiedBefore:     req.ModifiedBefore,
	}
	if req.Format != "" {
		format, err := media.ParseFormat(req.Format)
		if err != nil {
			return catalog.FilterSpec{}, catalog.SortSpec{}, services.Wrap(services.ErrValidation, "", "list", req.Format, err)
		}
		filter.Format = &format
	}

	order := catalog.SortSpec{Descending: req.SortDesc}
	if req.SortBy != "" {
		key, err := catalog.ParseSortKey(req.SortBy)
		if err != nil {
			return catalog.FilterSpec{}, catalog.SortSpec{}, services.Wrap(services.ErrValidation, "", "list", req.SortBy, err)
		}
		order.Key = key
	}
	return filter, order, nil
}

func fileRecord(file catalog.File) FileRecord {
	record := FileRecord{
		Path:       file.Path,
		SizeBytes:  file.Metadata.SizeBytes,
		ModifiedAt: file.Metadata.ModTime,
		Format:     file.Metadata.Format.String(),
	}
	if file.Metadata.DurationKnown {
		duration := file.Metadata.Duration
		record.DurationSeconds = &duration
	}
	for _, backend := range file.Backends {
		record.EligibleBackends = append(record.EligibleBackends, string(backend))
	}
	return record
}

func failure(err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: string(services.Classify(err)), Message: err.Error()}
}

func transformOutcomes(results batch.Result[catalog.File]) []TransformOutcome {
	outcomes := make([]TransformOutcome, 0, len(results))
	for _, result := range results {
		outcome := TransformOutcome{Path: result.Path, Failure: failure(result.Err)}
		if result.Err == nil {
			record := fileRecord(result.Value)
			outcome.File = &record
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func transcriptOutcomes(results batch.Result[string]) []TranscriptOutcome {
	outcomes := make([]TranscriptOutcome, 0, len(results))
	for _, result := range results {
		outcome := TranscriptOutcome{Path: result.Path, Failure: failure(result.Err)}
		if result.Err == nil {
			outcome.Text = result.Value
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
