package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/session"
	"github.com/ekainfr/vtauto/internal/wait"
)

// Server accepts connections on a Unix listener and routes each request
// to the Dispatcher.
type Server struct {
	ln   net.Listener
	disp *dispatch.Dispatcher
}

// NewServer wraps an already-bound listener.
func NewServer(ln net.Listener, disp *dispatch.Dispatcher) *Server {
	return &Server{ln: ln, disp: disp}
}

// Serve accepts connections until the listener is closed.
func (srv *Server) Serve() {
	for {
		conn, err := srv.ln.Accept()
		if err != nil {
			return
		}
		go srv.handleConn(conn)
	}
}

func (srv *Server) handleConn(conn net.Conn) {
	br := bufio.NewReader(conn)
	dec := json.NewDecoder(br)
	req, err := ReadRequest(dec)
	if err != nil {
		conn.Close()
		return
	}

	switch req.Method {
	case MethodAttach:
		srv.handleAttach(conn, br, req)
	default:
		resp := srv.dispatchOne(req)
		SendResponse(conn, resp)
		conn.Close()
	}
}

func (srv *Server) dispatchOne(req *Request) *Response {
	result, err := srv.call(req)
	if err != nil {
		return &Response{ID: req.ID, Error: &Error{Kind: string(errs.KindOf(err)), Message: err.Error()}}
	}
	data, merr := json.Marshal(result)
	if merr != nil {
		return &Response{ID: req.ID, Error: &Error{Kind: string(errs.Internal), Message: merr.Error()}}
	}
	return &Response{ID: req.ID, Result: data}
}

func (srv *Server) call(req *Request) (any, error) {
	switch req.Method {
	case MethodSpawn:
		var p dispatch.SpawnParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "spawn params")
		}
		return srv.disp.Spawn(p)
	case MethodKill:
		var p struct{ Session string }
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "kill params")
		}
		return nil, srv.disp.Kill(p.Session)
	case MethodList:
		infos, active := srv.disp.List()
		return struct {
			Sessions interface{} `json:"sessions"`
			Active   string      `json:"active"`
		}{infos, active}, nil
	case MethodResize:
		var p struct {
			Session    string
			Cols, Rows int
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "resize params")
		}
		cols, rows, err := srv.disp.Resize(p.Session, p.Cols, p.Rows)
		if err != nil {
			return nil, err
		}
		return struct{ Cols, Rows int }{cols, rows}, nil
	case MethodWrite:
		var p struct {
			Session string
			Input   dispatch.WriteInput
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "write params")
		}
		return nil, srv.disp.Write(p.Session, p.Input)
	case MethodSnapshot:
		var p struct {
			Session string
			Params  dispatch.SnapshotParams
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "snapshot params")
		}
		return srv.disp.Snapshot(p.Session, p.Params)
	case MethodAction:
		var p struct {
			Session string
			Action  dispatch.ActionParams
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "action params")
		}
		return nil, srv.disp.Action(p.Session, p.Action)
	case MethodWait:
		var p struct {
			Session   string
			Condition wait.Condition
			TimeoutMs int64
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "wait params")
		}
		timeout := time.Duration(p.TimeoutMs) * time.Millisecond
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
		defer cancel()
		return srv.disp.Wait(ctx, p.Session, p.Condition, timeout)
	case MethodFind:
		var p struct {
			Session string
			Filters dispatch.FindFilters
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, errs.Wrap(errs.InvalidParams, err, "find params")
		}
		return srv.disp.Find(p.Session, p.Filters)
	case MethodHealth:
		return srv.disp.Health(), nil
	default:
		return nil, errs.New(errs.InvalidParams, "unknown method %q", req.Method)
	}
}

// handleAttach validates the session, streams accumulated+live output as
// data frames, and accepts interleaved resize control frames from the
// caller until the connection or session closes.
func (srv *Server) handleAttach(conn net.Conn, br *bufio.Reader, req *Request) {
	defer conn.Close()

	var p struct {
		Session string
		Cols    int
		Rows    int
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		SendResponse(conn, &Response{ID: req.ID, Error: &Error{Kind: string(errs.InvalidParams), Message: err.Error()}})
		return
	}

	s, err := srv.disp.Attach(p.Session)
	if err != nil {
		SendResponse(conn, &Response{ID: req.ID, Error: &Error{Kind: string(errs.KindOf(err)), Message: err.Error()}})
		return
	}

	if err := SendResponse(conn, &Response{ID: req.ID, Result: json.RawMessage(`{"ok":true}`)}); err != nil {
		return
	}

	initial := s.Snapshot(false, false)
	WriteFrame(conn, FrameTypeData, []byte(initial.Screen))

	ch, cancel := s.Subscribe()
	defer cancel()

	go srv.readInboundFrames(br, s)

	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return
			}
			if WriteFrame(conn, FrameTypeData, chunk) != nil {
				return
			}
		case <-s.Done():
			return
		}
	}
}

// readInboundFrames relays data frames from an attached client into the
// session's PTY input and applies resize control frames.
func (srv *Server) readInboundFrames(r *bufio.Reader, s *session.Session) {
	for {
		frameType, payload, err := ReadFrame(r)
		if err != nil {
			return
		}
		switch frameType {
		case FrameTypeData:
			s.Write(payload)
		case FrameTypeControl:
			var ctrl ResizeControl
			if json.Unmarshal(payload, &ctrl) == nil && ctrl.Type == "resize" {
				s.Resize(ctrl.Cols, ctrl.Rows)
			}
		}
	}
}
