package ocr

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

// TextractEngine uses AWS Textract table analysis. Detected tables are
// rendered as markdown pipe tables so the extraction layer can parse
// line items from them the same way it does for other engines.
type TextractEngine struct {
	client        *textract.Client
	logger        logger.Logger
	minConfidence float32
}

func NewTextractEngine(ctx context.Context, cfg *config.TextractConfig, log logger.Logger) (*TextractEngine, error) {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &TextractEngine{
		client:        textract.NewFromConfig(awsCfg),
		logger:        log,
		minConfidence: cfg.MinConfidence,
	}, nil
}

func (e *TextractEngine) CanProcess(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg", "image/png", "image/tiff", "application/pdf":
		return true
	default:
		return false
	}
}

func (e *TextractEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	input := &textract.AnalyzeDocumentInput{
		Document: &types.Document{
			Bytes: data,
		},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables},
	}

	result, err := e.client.AnalyzeDocument(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	blocksByID := make(map[string]types.Block, len(result.Blocks))
	for _, block := range result.Blocks {
		if block.Id != nil {
			blocksByID[*block.Id] = block
		}
	}

	// Lines belonging to table cells are emitted again inside the
	// rendered table, so they are skipped in the plain-text section.
	tableLineIDs := make(map[string]bool)
	var tables []string
	for _, block := range result.Blocks {
		if block.BlockType != types.BlockTypeTable {
			continue
		}
		table := e.renderTable(block, blocksByID, tableLineIDs)
		if table != "" {
			tables = append(tables, table)
		}
	}

	var lines []string
	for _, block := range result.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < e.minConfidence {
			continue
		}
		if block.Id != nil && tableLineIDs[*block.Id] {
			continue
		}
		lines = append(lines, *block.Text)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(lines, "\n"))
	for _, table := range tables {
		sb.WriteString("\n\n")
		sb.WriteString(table)
	}

	e.logger.Info("Textract analysis completed",
		logger.Int("lines", len(lines)),
		logger.Int("tables", len(tables)),
	)

	return &Document{
		Pages: []Page{{Index: 0, Markdown: sb.String()}},
	}, nil
}

// renderTable converts a Textract TABLE block into a markdown pipe
// table, treating the first row as the header.
func (e *TextractEngine) renderTable(table types.Block, blocksByID map[string]types.Block, tableLineIDs map[string]bool) string {
	var rows, cols int32
	cells := make(map[[2]int32]string)

	for _, rel := range table.Relationships {
		if rel.Type != types.RelationshipTypeChild {
			continue
		}
		for _, id := range rel.Ids {
			cell, ok := blocksByID[id]
			if !ok || cell.BlockType != types.BlockTypeCell {
				continue
			}
			if cell.RowIndex == nil || cell.ColumnIndex == nil {
				continue
			}
			if *cell.RowIndex > rows {
				rows = *cell.RowIndex
			}
			if *cell.ColumnIndex > cols {
				cols = *cell.ColumnIndex
			}
			cells[[2]int32{*cell.RowIndex, *cell.ColumnIndex}] = e.cellText(cell, blocksByID, tableLineIDs)
		}
	}

	if rows < 1 || cols < 1 {
		return ""
	}

	var sb strings.Builder
	for r := int32(1); r <= rows; r++ {
		sb.WriteString("|")
		for c := int32(1); c <= cols; c++ {
			sb.WriteString(" ")
			sb.WriteString(cells[[2]int32{r, c}])
			sb.WriteString(" |")
		}
		sb.WriteString("\n")

		if r == 1 {
			sb.WriteString("|")
			for c := int32(1); c <= cols; c++ {
				sb.WriteString("---|")
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// cellText joins the WORD children of a cell and records which LINE
// blocks contributed text so they are not duplicated outside the table.
func (e *TextractEngine) cellText(cell types.Block, blocksByID map[string]types.Block, tableLineIDs map[string]bool) string {
	var words []string
	for _, rel := range cell.Relationships {
		if rel.Type != types.RelationshipTypeChild {
			continue
		}
		for _, id := range rel.Ids {
			child, ok := blocksByID[id]
			if !ok || child.Text == nil {
				continue
			}
			switch child.BlockType {
			case types.BlockTypeWord:
				words = append(words, *child.Text)
			case types.BlockTypeLine:
				tableLineIDs[id] = true
				words = append(words, *child.Text)
			}
		}
	}
	return strings.Join(words, " ")
}

func (e *TextractEngine) Close() error {
	return nil
}
