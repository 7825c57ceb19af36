package netserver

import (
	"bufio"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hareesh108/haruDB/internal/command"
	"github.com/Hareesh108/haruDB/internal/dispatch"
	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/exec"
	"github.com/Hareesh108/haruDB/internal/session"
)

// Server accepts client connections on a local stream socket and drives one
// session per connection (spec §5: "the engine accepts one client per
// session").
type Server struct {
	Catalog          *engine.Catalog
	Log              zerolog.Logger
	MaxSharedPerPass int
	MaxSelectThreads int
	MaxBtreeKeys     int

	// OnShutdown is invoked once, from whichever connection issues the
	// shutdown command, after that connection's final reply is sent but
	// before the listener is closed (spec §5: "shutdown command drains the
	// current operator, persists state, closes the socket").
	OnShutdown func() error

	listener net.Listener
	quit     chan struct{}
}

// Serve accepts connections on ln until shutdown is requested or ln closes.
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	s.quit = make(chan struct{})

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.Log.Error().Err(err).Msg("accept failed")
				continue
			}
		}
		sessionID := uuid.NewString()
		go s.handleConnection(conn, sessionID)
	}
}

func (s *Server) handleConnection(conn net.Conn, sessionID string) {
	log := s.Log.With().Str("session", sessionID).Logger()
	log.Info().Msg("client connected")
	defer func() {
		conn.Close()
		log.Info().Msg("client disconnected")
	}()

	ctx := session.New(engine.DefaultClientHandles)
	d := dispatch.New(s.Catalog, ctx, s.MaxSharedPerPass, s.MaxSelectThreads, s.MaxBtreeKeys)
	d.Log = log
	reader := bufio.NewReader(conn)

	for {
		_, payload, err := ReadFrame(reader)
		if err != nil {
			if err.Error() != "EOF" {
				log.Debug().Err(err).Msg("read frame")
			}
			return
		}
		text := strings.TrimSpace(string(payload))

		if text == "load" {
			if err := s.handleLoad(conn, reader, d, log); err != nil {
				log.Warn().Err(err).Msg("load sub-protocol failed")
			}
			continue
		}

		cmd, err := command.Parse(text)
		if err != nil {
			_ = WriteFrame(conn, StatusIncorrectFormat, []byte(err.Error()))
			continue
		}
		if cmd == nil {
			_ = WriteFrame(conn, StatusOKDone, nil)
			continue
		}

		resp := d.Execute(cmd)
		if resp.Vectors != nil {
			if err := s.handlePrint(conn, reader, resp.Vectors); err != nil {
				log.Warn().Err(err).Msg("print sub-protocol failed")
			}
			continue
		}

		if err := WriteFrame(conn, toWireStatus(resp.Status), []byte(resp.Message)); err != nil {
			log.Warn().Err(err).Msg("write response")
			return
		}

		if resp.Shutdown {
			if s.OnShutdown != nil {
				if err := s.OnShutdown(); err != nil {
					log.Error().Err(err).Msg("persist on shutdown")
				}
			}
			close(s.quit)
			s.listener.Close()
			return
		}
	}
}

func toWireStatus(st dispatch.Status) Status {
	switch st {
	case dispatch.OKDone:
		return StatusOKDone
	case dispatch.OKWaitForResponse:
		return StatusOKWaitForResponse
	case dispatch.UnknownCommand:
		return StatusUnknownCommand
	case dispatch.ObjectNotFound:
		return StatusObjectNotFound
	case dispatch.IncorrectFormat:
		return StatusIncorrectFormat
	case dispatch.QueryUnsupported:
		return StatusQueryUnsupported
	default:
		return StatusExecutionError
	}
}

// handlePrint runs the print sub-protocol (spec §6): a metadata header
// {num_columns, multi_row_flag}, then either per-column type+value headers
// (single-row) or 512-row column-major tiles followed by a length=-1
// sentinel (multi-row). The client acks every header, matching the read
// loop this function itself drives for those acks.
func (s *Server) handlePrint(conn net.Conn, reader *bufio.Reader, vectors []*engine.Vector) error {
	plan, err := exec.BuildPrint(vectors)
	if err != nil {
		return WriteFrame(conn, StatusExecutionError, []byte(err.Error()))
	}

	meta := make([]int32, 2)
	meta[0] = int32(len(vectors))
	if plan.MultiRow {
		meta[1] = 1
	}
	if err := WriteFrame(conn, StatusOKDone, int32Bytes(meta)); err != nil {
		return err
	}
	if err := awaitAck(reader); err != nil {
		return err
	}

	if !plan.MultiRow {
		types := make([]int32, len(plan.Types))
		for i, t := range plan.Types {
			types[i] = int32(t)
		}
		if err := WriteFrame(conn, StatusOKDone, int32Bytes(types)); err != nil {
			return err
		}
		if err := awaitAck(reader); err != nil {
			return err
		}
		for _, v := range plan.Values {
			if err := WriteFrame(conn, StatusOKDone, singleValueBytes(v)); err != nil {
				return err
			}
			if err := awaitAck(reader); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < plan.Tiles(); i++ {
		start, end := plan.Tile(i)
		rows := end - start
		tile := make([]int32, 0, rows*len(plan.Columns))
		for r := start; r < end; r++ {
			for _, col := range plan.Columns {
				tile = append(tile, col[r])
			}
		}
		if err := WriteFrame(conn, StatusOKDone, int32Bytes(tile)); err != nil {
			return err
		}
		if err := awaitAck(reader); err != nil {
			return err
		}
	}
	// length = -1 sentinel, encoded as the max uint32 value.
	if err := WriteHeader(conn, Header{Status: StatusOKDone, Length: ^uint32(0)}); err != nil {
		return err
	}
	return awaitAck(reader)
}

func singleValueBytes(v *engine.Vector) []byte {
	switch v.Type {
	case engine.Long:
		buf := make([]byte, 8)
		byteOrder.PutUint64(buf, uint64(v.Longs[0]))
		return buf
	case engine.Double:
		buf := make([]byte, 8)
		byteOrder.PutUint64(buf, math.Float64bits(v.Doubles[0]))
		return buf
	default:
		return int32Bytes(v.Ints)
	}
}

func awaitAck(reader *bufio.Reader) error {
	_, _, err := ReadFrame(reader)
	return err
}

// handleLoad drives the load sub-protocol (spec §6): after the "load" text
// frame, the client sends a header whose payload is a decimal file size,
// then repeated header+payload chunks until a zero-length payload signals
// end of transfer. The assembled buffer is CSV: first line is qualified
// column headers ("db.table.col,..."), each subsequent line one row of
// comma-separated integers, driving the same per-row insert path as
// relational_insert (spec §4.3 "Load").
func (s *Server) handleLoad(conn net.Conn, reader *bufio.Reader, d *dispatch.Dispatcher, log zerolog.Logger) error {
	if err := WriteFrame(conn, StatusOKWaitForResponse, nil); err != nil {
		return err
	}

	_, sizePayload, err := ReadFrame(reader)
	if err != nil {
		return err
	}
	if _, err := strconv.Atoi(strings.TrimSpace(string(sizePayload))); err != nil {
		return WriteFrame(conn, StatusIncorrectFormat, []byte("load: expected decimal file size"))
	}
	if err := WriteFrame(conn, StatusOKWaitForResponse, nil); err != nil {
		return err
	}

	var buf []byte
	for {
		_, chunk, err := ReadFrame(reader)
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			break
		}
		buf = append(buf, chunk...)
		if err := WriteFrame(conn, StatusOKWaitForResponse, nil); err != nil {
			return err
		}
	}

	n, err := LoadCSV(d, string(buf))
	if err != nil {
		return WriteFrame(conn, StatusExecutionError, []byte(err.Error()))
	}
	log.Info().Int("rows", n).Msg("load complete")
	return WriteFrame(conn, StatusOKDone, []byte(fmt.Sprintf("loaded %d rows", n)))
}
