package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Scribe.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Scribe.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CacheReset drops the daemon's probe cache.
func (c *Client) CacheReset() (*CacheResetResponse, error) {
	var resp CacheResetResponse
	if err := c.client.Call("Scribe.CacheReset", CacheResetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the filtered, ordered audio listing.
func (c *Client) List(req ListRequest) (*ListResponse, error) {
	var resp ListResponse
	if err := c.client.Call("Scribe.List", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Latest returns the most recently modified audio file.
func (c *Client) Latest() (*LatestResponse, error) {
	var resp LatestResponse
	if err := c.client.Call("Scribe.Latest", LatestRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Convert converts files to a target container.
func (c *Client) Convert(paths []string, target string) (*ConvertResponse, error) {
	var resp ConvertResponse
	if err := c.client.Call("Scribe.Convert", ConvertRequest{Paths: paths, Target: target}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compress compresses files under a byte ceiling (0 = configured default).
func (c *Client) Compress(paths []string, ceilingBytes int64) (*CompressResponse, error) {
	var resp CompressResponse
	if err := c.client.Call("Scribe.Compress", CompressRequest{Paths: paths, CeilingBytes: ceilingBytes}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transcribe transcribes files via speech-to-text.
func (c *Client) Transcribe(paths []string) (*TranscribeResponse, error) {
	var resp TranscribeResponse
	if err := c.client.Call("Scribe.Transcribe", TranscribeRequest{Paths: paths}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranscribePrompted transcribes files via the multimodal backend with a
// free-form prompt.
func (c *Client) TranscribePrompted(paths []string, prompt string) (*TranscribeResponse, error) {
	var resp TranscribeResponse
	if err := c.client.Call("Scribe.TranscribePrompted", TranscribePromptedRequest{Paths: paths, Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranscribeEnhanced transcribes files via the multimodal backend with a named
// enhancement template.
func (c *Client) TranscribeEnhanced(paths []string, template string) (*TranscribeResponse, error) {
	var resp TranscribeResponse
	if err := c.client.Call("Scribe.TranscribeEnhanced", TranscribeEnhancedRequest{Paths: paths, Template: template}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
