package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// DefaultCollection holds one point per indexed content chunk.
	DefaultCollection = "textbook_content"

	// DefaultVectorDimension matches OpenAI text embeddings.
	DefaultVectorDimension = 1536
)

// ContentSchema builds the chunk collection schema for one dimension.
func ContentSchema(collection string, dimension int) *entity.Schema {
	if collection == "" {
		collection = DefaultCollection
	}
	if dimension <= 0 {
		dimension = DefaultVectorDimension
	}
	return &entity.Schema{
		CollectionName: collection,
		Description:    "Textbook content chunks for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dimension),
				},
			},
			{
				Name:     "chapter_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "module_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "chunk_order",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "start_pos",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "end_pos",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// ContentChunk is one stored chunk row.
type ContentChunk struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	ChapterID   string    `json:"chapter_id"`
	ModuleID    string    `json:"module_id"`
	ChunkOrder  int64     `json:"chunk_order"`
	StartPos    int64     `json:"start_pos"`
	EndPos      int64     `json:"end_pos"`
	TextContent string    `json:"text_content"`
}
