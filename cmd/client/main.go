// cmd/client/main.go
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Hareesh108/haruDB/internal/netserver"
)

const dbVersion = "v0.1.0"

// loadChunkSize bounds one load sub-protocol frame's payload (spec §6's load
// sub-protocol is chunked; a multi-megabyte CSV would otherwise go over the
// wire as one frame).
const loadChunkSize = 64 * 1024

func main() {
	var socketPath string

	root := &cobra.Command{
		Use:   "harudb-client",
		Short: "Interactive client for the haruDB engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(socketPath)
		},
	}
	root.PersistentFlags().StringVar(&socketPath, "socket", "/tmp/harudb.sock", "path to the server's local stream socket")

	loadCmd := &cobra.Command{
		Use:   "load <csv-file>",
		Short: "Drive the load sub-protocol with a local CSV file, non-interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(socketPath, args[0])
		},
	}

	shutdownCmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Ask the server on --socket to persist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientShutdown(socketPath)
		},
	}

	root.AddCommand(loadCmd, shutdownCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runLoad drives the client half of the load sub-protocol (spec §6): send
// the "load" text command, ack the server's wait-for-response, announce the
// file's size, then stream it in loadChunkSize frames until a zero-length
// frame signals end of transfer, finally reading the server's status.
func runLoad(socketPath, filePath string) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(conn)

	if err := netserver.WriteFrame(conn, netserver.StatusOKDone, []byte("load")); err != nil {
		return err
	}
	if _, _, err := netserver.ReadFrame(reader); err != nil {
		return fmt.Errorf("read load ack: %w", err)
	}

	if err := netserver.WriteFrame(conn, netserver.StatusOKDone, []byte(strconv.FormatInt(info.Size(), 10))); err != nil {
		return err
	}
	if _, _, err := netserver.ReadFrame(reader); err != nil {
		return fmt.Errorf("read size ack: %w", err)
	}

	buf := make([]byte, loadChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if err := netserver.WriteFrame(conn, netserver.StatusOKDone, buf[:n]); err != nil {
				return err
			}
			if _, _, err := netserver.ReadFrame(reader); err != nil {
				return fmt.Errorf("read chunk ack: %w", err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", filePath, err)
		}
	}
	if err := netserver.WriteFrame(conn, netserver.StatusOKDone, nil); err != nil {
		return err
	}

	h, payload, err := netserver.ReadFrame(reader)
	if err != nil {
		return fmt.Errorf("read load result: %w", err)
	}
	if h.Status != netserver.StatusOKDone {
		return fmt.Errorf("load failed: %s", string(payload))
	}
	fmt.Println(string(payload))
	return nil
}

// runClientShutdown is the client-binary equivalent of cmd/server's own
// "shutdown" subcommand, for operators who only have harudb-client on hand.
func runClientShutdown(socketPath string) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if err := netserver.WriteFrame(conn, netserver.StatusOKDone, []byte("shutdown()")); err != nil {
		return err
	}
	h, payload, err := netserver.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("read shutdown response: %w", err)
	}
	if h.Status != netserver.StatusOKDone {
		return fmt.Errorf("shutdown rejected: %s", string(payload))
	}
	fmt.Println("server shutting down")
	return nil
}

func runREPL(socketPath string) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".harudb_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("Connected to haruDB %s at %s\n", dbVersion, socketPath)
	fmt.Println("Type a command like create(db,\"db1\") or shutdown(), or exit to quit")

	reader := bufio.NewReader(conn)

	for {
		input, err := line.Prompt("harudb> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}
		line.AppendHistory(input)

		if err := netserver.WriteFrame(conn, netserver.StatusOKDone, []byte(input)); err != nil {
			fmt.Println("connection closed:", err)
			break
		}

		isPrint := strings.Contains(input, "print(")
		if isPrint {
			if err := receivePrint(conn, reader); err != nil {
				fmt.Println("print failed:", err)
				break
			}
		} else {
			h, payload, err := netserver.ReadFrame(reader)
			if err != nil {
				fmt.Println("connection closed:", err)
				break
			}
			printResponse(h, payload)
		}

		if input == "shutdown()" {
			break
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func printResponse(h netserver.Header, payload []byte) {
	switch h.Status {
	case netserver.StatusOKDone, netserver.StatusOKWaitForResponse:
		if len(payload) > 0 {
			fmt.Println(string(payload))
		}
	default:
		fmt.Printf("error: %s\n", string(payload))
	}
}

// receivePrint decodes the print sub-protocol symmetrically to the server's
// handlePrint: a metadata header {num_columns, multi_row_flag}, then either
// per-column type+value headers (single-row) or 512-row column-major tiles
// terminated by a length=-1 sentinel header (multi-row). Every header read
// here is acked with an empty frame, matching what the server waits for.
func receivePrint(conn net.Conn, reader *bufio.Reader) error {
	_, metaPayload, err := netserver.ReadFrame(reader)
	if err != nil {
		return fmt.Errorf("read print metadata: %w", err)
	}
	if err := ack(conn); err != nil {
		return err
	}
	meta := netserver.DecodeInt32s(metaPayload)
	if len(meta) < 2 {
		return fmt.Errorf("print metadata: expected 2 int32s, got %d", len(meta))
	}
	numColumns := int(meta[0])
	multiRow := meta[1] != 0

	if !multiRow {
		_, typesPayload, err := netserver.ReadFrame(reader)
		if err != nil {
			return fmt.Errorf("read print type header: %w", err)
		}
		if err := ack(conn); err != nil {
			return err
		}
		types := netserver.DecodeInt32s(typesPayload)

		values := make([]string, numColumns)
		for i := 0; i < numColumns; i++ {
			h, valuePayload, err := netserver.ReadFrame(reader)
			if err != nil {
				return fmt.Errorf("read print value %d: %w", i, err)
			}
			if err := ack(conn); err != nil {
				return err
			}
			values[i] = formatSingleValue(typeOf(types, i), h, valuePayload)
		}
		fmt.Println(strings.Join(values, " "))
		return nil
	}

	var rows [][]int32
	for {
		h, tilePayload, err := netserver.ReadFrame(reader)
		if err != nil {
			return fmt.Errorf("read print tile: %w", err)
		}
		if h.Length == ^uint32(0) {
			if err := ack(conn); err != nil {
				return err
			}
			break
		}
		if err := ack(conn); err != nil {
			return err
		}
		tile := netserver.DecodeInt32s(tilePayload)
		for r := 0; r+numColumns <= len(tile); r += numColumns {
			rows = append(rows, tile[r:r+numColumns])
		}
	}

	for _, row := range rows {
		strs := make([]string, len(row))
		for i, v := range row {
			strs[i] = fmt.Sprintf("%d", v)
		}
		fmt.Println(strings.Join(strs, " "))
	}
	return nil
}

func typeOf(types []int32, i int) int32 {
	if i < len(types) {
		return types[i]
	}
	return 0
}

// formatSingleValue decodes one column's single-row value per its declared
// type: Long and Double are fixed 8-byte wire values, everything else (Int)
// is a single little-endian int32.
func formatSingleValue(dataType int32, h netserver.Header, payload []byte) string {
	switch dataType {
	case 1: // Long
		if len(payload) >= 8 {
			return fmt.Sprintf("%d", int64(binary.LittleEndian.Uint64(payload)))
		}
	case 2: // Double
		if len(payload) >= 8 {
			return fmt.Sprintf("%g", math.Float64frombits(binary.LittleEndian.Uint64(payload)))
		}
	}
	ints := netserver.DecodeInt32s(payload)
	if len(ints) > 0 {
		return fmt.Sprintf("%d", ints[0])
	}
	return ""
}

func ack(conn net.Conn) error {
	return netserver.WriteFrame(conn, netserver.StatusOKDone, nil)
}
