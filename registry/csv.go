package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/rushteam/seatmatch/core"
)

// csvPassenger 是种子 CSV 的一行，表头：name,pnr,seat_type,coach,group_size。
// seat_type / coach / group_size 可为空。
type csvPassenger struct {
	Name      string `csv:"name"`
	PNR       string `csv:"pnr"`
	SeatType  string `csv:"seat_type,omitempty"`
	Coach     *int   `csv:"coach,omitempty"`
	GroupSize *int   `csv:"group_size,omitempty"`
}

// LoadCSV 从 CSV 读取乘客并逐条登记，返回成功登记的人数。
// 任何一行校验失败或 PNR 重复都会中止并返回错误（已登记的行保留）。
func LoadCSV(ctx context.Context, r io.Reader, reg core.PassengerRegistry) (int, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to create CSV decoder for passengers: %w", err)
	}

	var rows []csvPassenger
	if err := dec.Decode(&rows); err != nil {
		return 0, fmt.Errorf("failed to decode passenger CSV data: %w", err)
	}

	for i, row := range rows {
		p := core.Passenger{
			Name:     row.Name,
			PNR:      row.PNR,
			SeatType: row.SeatType,
			Coach:    row.Coach,
		}
		if row.GroupSize != nil {
			p.GroupSize = *row.GroupSize
		}
		if _, err := reg.Register(ctx, p); err != nil {
			// 表头占第 1 行
			return i, fmt.Errorf("csv line %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// LoadCSVFile 是 LoadCSV 的文件版本。
func LoadCSVFile(ctx context.Context, path string, reg core.PassengerRegistry) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return LoadCSV(ctx, f, reg)
}
