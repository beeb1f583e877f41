package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type sceneFile struct {
	Scenes []struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []stepEntry `yaml:"steps"`
	} `yaml:"scenes"`
}

// stepEntry decodes one `op: ...` mapping into its typed step.
type stepEntry struct {
	Step Step
}

func (s *stepEntry) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Op Op `yaml:"op"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	var err error
	switch head.Op {
	case OpSetColor:
		s.Step, err = decodeAs[SetColor](node)
	case OpTurnOn:
		s.Step, err = decodeAs[TurnOn](node)
	case OpTurnOff:
		s.Step, err = decodeAs[TurnOff](node)
	case OpPulse:
		s.Step, err = decodeAs[Pulse](node)
	case OpFadeTo:
		s.Step, err = decodeAs[FadeTo](node)
	case OpBreath:
		s.Step, err = decodeAs[Breath](node)
	case OpRainbowCycle:
		s.Step, err = decodeAs[RainbowCycle](node)
	case OpCylon:
		s.Step, err = decodeAs[Cylon](node)
	case OpWipe:
		s.Step, err = decodeAs[Wipe](node)
	case OpChase:
		s.Step, err = decodeAs[Chase](node)
	case OpSparkle:
		s.Step, err = decodeAs[Sparkle](node)
	case OpFlicker:
		s.Step, err = decodeAs[Flicker](node)
	case OpStrobe:
		s.Step, err = decodeAs[Strobe](node)
	case OpPreviewCount:
		s.Step, err = decodeAs[PreviewCount](node)
	case OpWait:
		s.Step, err = decodeAs[Wait](node)
	case OpFlashRandom:
		s.Step, err = decodeAs[FlashRandom](node)
	default:
		return &UnknownOperationError{Op: string(head.Op), Line: node.Line}
	}

	return err
}

func decodeAs[T Step](node *yaml.Node) (Step, error) {
	var st T
	if err := node.Decode(&st); err != nil {
		return nil, err
	}
	return st, nil
}

// Load reads scene definitions from YAML. Every step names its operation with `op`; an operation that does
// not exist fails the whole load with an *UnknownOperationError.
func Load(r io.Reader) ([]Scene, error) {
	var f sceneFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}

	scenes := make([]Scene, 0, len(f.Scenes))
	for _, s := range f.Scenes {
		sc := Scene{
			Name:        s.Name,
			Description: s.Description,
			Steps:       make([]Step, 0, len(s.Steps)),
		}
		for _, e := range s.Steps {
			sc.Steps = append(sc.Steps, e.Step)
		}
		scenes = append(scenes, sc)
	}

	return scenes, nil
}

func LoadFile(path string) ([]Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scenes, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load scenes from %s: %w", path, err)
	}
	return scenes, nil
}
