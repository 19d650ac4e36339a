package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// AttachConn is the connection returned by Client.Attach. Reads must go
// through it (not the embedded net.Conn directly) because the JSON
// handshake decoder may have buffered bytes past the handshake line.
type AttachConn struct {
	net.Conn
	r *bufio.Reader
}

func (a *AttachConn) Read(p []byte) (int, error) { return a.r.Read(p) }

// Client is a thin synchronous wrapper over Unix-domain connections to
// the daemon, used by cmd/vtauto subcommands.
type Client struct {
	addr string
}

// Dial returns a Client bound to addr; each Call opens its own short-lived
// connection, matching the request/response (not persistent-session)
// shape of the control protocol.
func Dial(addr string) *Client {
	return &Client{addr: addr}
}

// Call issues one request and decodes its result into out (nil to discard).
func (c *Client) Call(method string, params, out any) error {
	conn, err := net.DialTimeout("unix", c.addr, 3*time.Second)
	if err != nil {
		return fmt.Errorf("connect to daemon at %s: %w", c.addr, err)
	}
	defer conn.Close()

	var raw json.RawMessage
	if params != nil {
		raw, err = json.Marshal(params)
		if err != nil {
			return err
		}
	}
	req := &Request{ID: uuid.New().String(), Method: method, Params: raw}
	if err := SendRequest(conn, req); err != nil {
		return err
	}

	dec := json.NewDecoder(conn)
	resp, err := ReadResponse(dec)
	if err != nil {
		return fmt.Errorf("read daemon response: %w", err)
	}
	if resp.Error != nil {
		return &RemoteError{Kind: resp.Error.Kind, Message: resp.Error.Message}
	}
	if out != nil && len(resp.Result) > 0 {
		return json.Unmarshal(resp.Result, out)
	}
	return nil
}

// RemoteError is returned by Client.Call for daemon-side errors, carrying
// the error Kind across the wire.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// Attach opens a long-lived connection for the attach byte stream, reads
// the handshake response (returning its error, if any), and returns the
// connection. The caller reads data frames with ReadFrame and may write
// data and control frames with WriteFrame.
func (c *Client) Attach(sessionID string, cols, rows int) (*AttachConn, error) {
	conn, err := net.DialTimeout("unix", c.addr, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w", c.addr, err)
	}
	params, _ := json.Marshal(struct {
		Session string
		Cols    int
		Rows    int
	}{sessionID, cols, rows})
	req := &Request{ID: uuid.New().String(), Method: MethodAttach, Params: params}
	if err := SendRequest(conn, req); err != nil {
		conn.Close()
		return nil, err
	}
	br := bufio.NewReader(conn)
	dec := json.NewDecoder(br)
	resp, err := ReadResponse(dec)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read attach handshake: %w", err)
	}
	if resp.Error != nil {
		conn.Close()
		return nil, &RemoteError{Kind: resp.Error.Kind, Message: resp.Error.Message}
	}
	return &AttachConn{Conn: conn, r: br}, nil
}
