package store

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tasklist/model"
)

// SeedTask YAML 初始数据文件中的一项:
//
//	- text: Buy milk
//	  due: 2024-03-10
//	  completed: false
type SeedTask struct {
	Text      string `yaml:"text"`
	Due       string `yaml:"due"`
	Completed bool   `yaml:"completed"`
}

// LoadSeed 按文件顺序添加任务，任何一项无效时都不添加
func (s *Store) LoadSeed(r io.Reader) (int, error) {
	var entries []SeedTask
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decode seed: %w", err)
	}

	type parsed struct {
		text      string
		due       time.Time
		completed bool
	}
	valid := make([]parsed, 0, len(entries))
	for i, e := range entries {
		due, err := model.ParseDueDate(e.Due)
		if err != nil {
			return 0, fmt.Errorf("seed entry %d: %w", i, err)
		}
		text, err := model.ValidateInput(e.Text, due)
		if err != nil {
			return 0, fmt.Errorf("seed entry %d: %w", i, err)
		}
		valid = append(valid, parsed{text: text, due: due, completed: e.Completed})
	}

	for _, p := range valid {
		task, err := s.Add(p.text, p.due)
		if err != nil {
			return 0, err
		}
		if p.completed {
			if _, err := s.ToggleByID(task.ID); err != nil {
				return 0, err
			}
		}
	}
	return len(valid), nil
}

// LoadSeedFile 从文件路径加载初始数据
func (s *Store) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}
