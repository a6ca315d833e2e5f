package export

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rogue3/dungeonforge/pkg/dungeon"
	"github.com/rogue3/dungeonforge/pkg/geom"
)

// TMJ Format Types
// Based on the Tiled Map Editor JSON specification (TMJ 1.10)
// Reference: https://doc.mapeditor.org/en/stable/reference/json-map-format/

// TMJMap represents the root TMJ map structure.
type TMJMap struct {
	Type             string        `json:"type"`
	Version          string        `json:"version"`
	TiledVersion     string        `json:"tiledversion"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	TileWidth        int           `json:"tilewidth"`
	TileHeight       int           `json:"tileheight"`
	Orientation      string        `json:"orientation"`
	RenderOrder      string        `json:"renderorder"`
	Infinite         bool          `json:"infinite"`
	NextLayerID      int           `json:"nextlayerid"`
	NextObjectID     int           `json:"nextobjectid"`
	BackgroundColor  *string       `json:"backgroundcolor,omitempty"`
	Class            string        `json:"class,omitempty"`
	CompressionLevel int           `json:"compressionlevel"`
	Layers           []TMJLayer    `json:"layers"`
	Tilesets         []TMJTileset  `json:"tilesets"`
	Properties       []TMJProperty `json:"properties,omitempty"`
}

// TMJLayer represents any layer type (tile or object).
type TMJLayer struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type"` // "tilelayer" or "objectgroup"
	Visible    bool          `json:"visible"`
	Opacity    float64       `json:"opacity"`
	X          int           `json:"x"`
	Y          int           `json:"y"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
	Class      string        `json:"class,omitempty"`
	Properties []TMJProperty `json:"properties,omitempty"`

	// Tile layer specific
	Data        interface{} `json:"data,omitempty"`        // []uint32 or base64 string
	Encoding    string      `json:"encoding,omitempty"`    // "csv" or "base64"
	Compression string      `json:"compression,omitempty"` // "" or "gzip"

	// Object layer specific
	DrawOrder string      `json:"draworder,omitempty"`
	Objects   []TMJObject `json:"objects,omitempty"`
}

// TMJObject represents an entity or collision shape placed on an
// object layer (used here for rooms and spawn points).
type TMJObject struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type,omitempty"`
	Class      string        `json:"class,omitempty"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Rotation   float64       `json:"rotation"`
	Visible    bool          `json:"visible"`
	Point      bool          `json:"point,omitempty"`
	Properties []TMJProperty `json:"properties,omitempty"`
}

// TMJTileset references a collection of tiles.
type TMJTileset struct {
	FirstGID   uint32        `json:"firstgid"`
	Name       string        `json:"name,omitempty"`
	Class      string        `json:"class,omitempty"`
	TileWidth  int           `json:"tilewidth,omitempty"`
	TileHeight int           `json:"tileheight,omitempty"`
	TileCount  int           `json:"tilecount,omitempty"`
	Columns    int           `json:"columns,omitempty"`
	Image      string        `json:"image,omitempty"`
	Properties []TMJProperty `json:"properties,omitempty"`
}

// TMJProperty represents a custom property.
type TMJProperty struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// tmjGID assigns each terrain cell type a stable Tiled global tile ID.
// 0 is reserved by the TMJ format for "no tile".
func tmjGID(ct geom.CellType) uint32 {
	switch ct {
	case geom.Floor:
		return 1
	case geom.Wall:
		return 2
	case geom.Door:
		return 3
	case geom.Water:
		return 4
	case geom.Lava:
		return 5
	default:
		return 0
	}
}

// NewTMJMap creates a new TMJ map with default settings.
func NewTMJMap(width, height, tileWidth, tileHeight int) *TMJMap {
	return &TMJMap{
		Type:             "map",
		Version:          "1.10",
		TiledVersion:     "1.10.2",
		Width:            width,
		Height:           height,
		TileWidth:        tileWidth,
		TileHeight:       tileHeight,
		Orientation:      "orthogonal",
		RenderOrder:      "right-down",
		Infinite:         false,
		NextLayerID:      1,
		NextObjectID:     1,
		CompressionLevel: -1,
		Layers:           []TMJLayer{},
		Tilesets:         []TMJTileset{},
		Properties:       []TMJProperty{},
	}
}

// AddTileLayer adds a tile layer to the map.
func (m *TMJMap) AddTileLayer(name string, data []uint32) *TMJLayer {
	layer := TMJLayer{
		ID:       m.NextLayerID,
		Name:     name,
		Type:     "tilelayer",
		Visible:  true,
		Opacity:  1.0,
		Width:    m.Width,
		Height:   m.Height,
		Data:     data,
		Encoding: "csv",
	}
	m.NextLayerID++
	m.Layers = append(m.Layers, layer)
	return &m.Layers[len(m.Layers)-1]
}

// AddObjectLayer adds an object layer to the map.
func (m *TMJMap) AddObjectLayer(name string) *TMJLayer {
	layer := TMJLayer{
		ID:        m.NextLayerID,
		Name:      name,
		Type:      "objectgroup",
		Visible:   true,
		Opacity:   1.0,
		DrawOrder: "topdown",
		Objects:   []TMJObject{},
	}
	m.NextLayerID++
	m.Layers = append(m.Layers, layer)
	return &m.Layers[len(m.Layers)-1]
}

// AddObject appends obj to an object layer, assigning it the map's next
// object ID.
func (l *TMJLayer) AddObject(obj TMJObject, m *TMJMap) {
	if l.Type != "objectgroup" {
		return
	}
	obj.ID = m.NextObjectID
	m.NextObjectID++
	l.Objects = append(l.Objects, obj)
}

// AddTileset adds a tileset reference to the map.
func (m *TMJMap) AddTileset(name, imagePath string, tileWidth, tileHeight, tileCount, columns int) *TMJTileset {
	firstGID := uint32(1)
	if len(m.Tilesets) > 0 {
		last := m.Tilesets[len(m.Tilesets)-1]
		firstGID = last.FirstGID + uint32(last.TileCount)
	}
	tileset := TMJTileset{
		FirstGID:   firstGID,
		Name:       name,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		TileCount:  tileCount,
		Columns:    columns,
		Image:      imagePath,
	}
	m.Tilesets = append(m.Tilesets, tileset)
	return &m.Tilesets[len(m.Tilesets)-1]
}

// CompressLayerData writes a tile layer's GIDs as little-endian uint32
// bytes, compresses them with gzip and encodes the result as base64,
// matching Tiled's gzip-compressed base64 layer encoding.
func (l *TMJLayer) CompressLayerData() error {
	if l.Type != "tilelayer" {
		return fmt.Errorf("cannot compress non-tile layer")
	}
	data, ok := l.Data.([]uint32)
	if !ok {
		return fmt.Errorf("layer data is not []uint32")
	}

	buf := new(bytes.Buffer)
	for _, gid := range data {
		buf.WriteByte(byte(gid))
		buf.WriteByte(byte(gid >> 8))
		buf.WriteByte(byte(gid >> 16))
		buf.WriteByte(byte(gid >> 24))
	}

	var compressed bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressed)
	if _, err := gzipWriter.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := gzipWriter.Close(); err != nil {
		return err
	}

	l.Data = base64.StdEncoding.EncodeToString(compressed.Bytes())
	l.Encoding = "base64"
	l.Compression = "gzip"
	return nil
}

// ExportTMJ converts a finalized dungeon artifact into a TMJ map: one
// tile layer per terrain cell type (floor/walls/doors/water/lava) and an
// object layer each for rooms and spawns.
func ExportTMJ(artifact *dungeon.DungeonArtifact, compress bool) (*TMJMap, error) {
	if artifact == nil {
		return nil, fmt.Errorf("artifact cannot be nil")
	}

	const tileSize = 16
	tmjMap := NewTMJMap(artifact.Width, artifact.Height, tileSize, tileSize)
	tmjMap.Class = "dungeon"
	tmjMap.AddTileset("dungeon_tiles", "tilesets/dungeon.png", tileSize, tileSize, 6, 6)

	cellCount := artifact.Width * artifact.Height
	layerData := map[geom.CellType][]uint32{
		geom.Floor: make([]uint32, cellCount),
		geom.Wall:  make([]uint32, cellCount),
		geom.Door:  make([]uint32, cellCount),
		geom.Water: make([]uint32, cellCount),
		geom.Lava:  make([]uint32, cellCount),
	}
	for i, b := range artifact.Terrain {
		ct := geom.CellType(b)
		if data, ok := layerData[ct]; ok {
			data[i] = tmjGID(ct)
		}
	}

	for _, name := range []string{"floor", "walls", "doors", "water", "lava"} {
		ct := cellTypeForLayerName(name)
		tmjLayer := tmjMap.AddTileLayer(name, layerData[ct])
		tmjLayer.Class = name
		if compress {
			if err := tmjLayer.CompressLayerData(); err != nil {
				return nil, fmt.Errorf("failed to compress layer %s: %w", name, err)
			}
		}
	}

	rooms := tmjMap.AddObjectLayer("rooms")
	for _, r := range artifact.Rooms {
		obj := TMJObject{
			Name: fmt.Sprintf("room-%d", r.ID), Type: string(r.Type),
			X: float64(r.X * tileSize), Y: float64(r.Y * tileSize),
			Width: float64(r.Width * tileSize), Height: float64(r.Height * tileSize),
			Visible: true,
			Properties: []TMJProperty{
				{Name: "roomId", Type: "int", Value: r.ID},
				{Name: "roomType", Type: "string", Value: string(r.Type)},
			},
		}
		rooms.AddObject(obj, tmjMap)
	}

	spawns := tmjMap.AddObjectLayer("spawns")
	for _, s := range artifact.Spawns {
		obj := TMJObject{
			Name: s.Type, Type: s.Type,
			X: float64(s.Position.X * tileSize), Y: float64(s.Position.Y * tileSize),
			Point: true, Visible: true,
			Properties: []TMJProperty{
				{Name: "roomId", Type: "int", Value: s.RoomID},
				{Name: "distanceFromStart", Type: "float", Value: s.DistanceFromStart},
			},
		}
		spawns.AddObject(obj, tmjMap)
	}

	tmjMap.Properties = append(tmjMap.Properties,
		TMJProperty{Name: "generator", Type: "string", Value: "dungeonforge"},
		TMJProperty{Name: "checksum", Type: "string", Value: artifact.Checksum},
	)

	return tmjMap, nil
}

func cellTypeForLayerName(name string) geom.CellType {
	switch name {
	case "floor":
		return geom.Floor
	case "walls":
		return geom.Wall
	case "doors":
		return geom.Door
	case "water":
		return geom.Water
	case "lava":
		return geom.Lava
	default:
		return geom.Wall
	}
}

// MarshalTMJ serializes a TMJ map to indented JSON.
func MarshalTMJ(tmjMap *TMJMap) ([]byte, error) {
	return json.MarshalIndent(tmjMap, "", "  ")
}

// MarshalTMJCompact serializes a TMJ map to compact JSON.
func MarshalTMJCompact(tmjMap *TMJMap) ([]byte, error) {
	return json.Marshal(tmjMap)
}

// SaveTMJToFile writes a TMJ map to path as indented JSON.
func SaveTMJToFile(tmjMap *TMJMap, path string) error {
	data, err := MarshalTMJ(tmjMap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EncodeTMJ writes a TMJ map to w as indented JSON.
func EncodeTMJ(tmjMap *TMJMap, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tmjMap)
}

// ExportArtifactToTMJ exports artifact directly to TMJ-formatted JSON bytes.
func ExportArtifactToTMJ(artifact *dungeon.DungeonArtifact, compress bool) ([]byte, error) {
	tmjMap, err := ExportTMJ(artifact, compress)
	if err != nil {
		return nil, err
	}
	return MarshalTMJ(tmjMap)
}

// SaveArtifactToTMJFile exports artifact directly to a TMJ file at path.
func SaveArtifactToTMJFile(artifact *dungeon.DungeonArtifact, path string, compress bool) error {
	tmjMap, err := ExportTMJ(artifact, compress)
	if err != nil {
		return err
	}
	return SaveTMJToFile(tmjMap, path)
}
