package levels

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the YAML shape the engine loads. Field order is the key order
// in the output file.
type Document struct {
	Include           []string          `yaml:"include"`
	FileProperties    map[string]string `yaml:"fileProperties"`
	SceneName         string            `yaml:"sceneName"`
	CameraSettings    CameraSettings    `yaml:"cameraSettings"`
	Grid              GridSpec          `yaml:"grid"`
	Objects           []Placement       `yaml:"objects"`
	ObjectDefinitions map[string]string `yaml:"objectDefinitions,omitempty"`
	Sounds            map[string]string `yaml:"sounds,omitempty"`
	GlobalData        map[string]string `yaml:"globalData,omitempty"`
}

type GridSpec struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Rows   []Row `yaml:"rows"`
}

// Row is one grid row, written in flow style so each row stays on one line.
type Row []string

func (r Row) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range r {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c})
	}
	return n, nil
}

// Document snapshots the level into its export shape.
func (l *Level) Document() Document {
	rows := make([]Row, l.height)
	for y := 0; y < l.height; y++ {
		row := make(Row, l.width)
		copy(row, l.cells[y*l.width:(y+1)*l.width])
		rows[y] = row
	}

	include := l.Include
	if include == nil {
		include = []string{}
	}

	return Document{
		Include:           include,
		FileProperties:    l.FileProperties,
		SceneName:         l.SceneName,
		CameraSettings:    l.CameraSettings,
		Grid:              GridSpec{Width: l.width, Height: l.height, Rows: rows},
		Objects:           l.Placements(),
		ObjectDefinitions: l.ObjectDefinitions,
		Sounds:            l.Sounds,
		GlobalData:        l.GlobalData,
	}
}

// EncodeYAML writes the level document to w.
func (l *Level) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l.Document()); err != nil {
		return fmt.Errorf("levels: encode yaml: %w", err)
	}
	return enc.Close()
}
