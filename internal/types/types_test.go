package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValidMembers(t *testing.T) {
	assert.True(t, DefaultAppType.Valid())
	assert.True(t, DefaultTechStack.Valid())
	assert.True(t, DefaultArchitecture.Valid())

	assert.Equal(t, "Nền Tảng SaaS Enterprise", DefaultAppType.Label())
	assert.Equal(t, "React + Node.js (MERN)", DefaultTechStack.Label())
	assert.Equal(t, "Clean Architecture", DefaultArchitecture.Label())
}

func TestParseEnums(t *testing.T) {
	app, err := ParseAppType("")
	require.NoError(t, err)
	assert.Equal(t, AppSaaSPlatform, app)

	stack, err := ParseTechStack("FLUTTER_FIREBASE")
	require.NoError(t, err)
	assert.Equal(t, "Flutter + Firebase", stack.Label())

	arch, err := ParseArchitecture("EVENT_DRIVEN")
	require.NoError(t, err)
	assert.Equal(t, ArchEventDriven, arch)

	_, err = ParseAppType("Nền Tảng SaaS Enterprise")
	assert.Error(t, err, "labels are not keys")
	_, err = ParseTechStack("RUST_AXUM")
	assert.Error(t, err)
	_, err = ParseArchitecture("HEXAGONAL")
	assert.Error(t, err)
}

func TestOptionsAreCopies(t *testing.T) {
	opts := AppTypeOptions()
	require.Len(t, opts, 6)
	opts[0].Label = "changed"
	assert.Equal(t, "Nền Tảng SaaS Enterprise", AppSaaSPlatform.Label())
	assert.Len(t, TechStackOptions(), 5)
	assert.Len(t, ArchitectureOptions(), 5)
}

func TestGenerationRequestValidate(t *testing.T) {
	req := NewGenerationRequest("/lib", DefaultAppType, DefaultTechStack, DefaultArchitecture, "Add auth module")
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultContext, req.Context)

	blankPath := NewGenerationRequest("   ", DefaultAppType, DefaultTechStack, DefaultArchitecture, "Add auth module")
	assert.ErrorIs(t, blankPath.Validate(), ErrMissingInput)

	blankReq := NewGenerationRequest("/lib", DefaultAppType, DefaultTechStack, DefaultArchitecture, "")
	assert.ErrorIs(t, blankReq.Validate(), ErrMissingInput)

	badEnum := NewGenerationRequest("/lib", AppType("NOPE"), DefaultTechStack, DefaultArchitecture, "x")
	assert.ErrorIs(t, badEnum.Validate(), ErrInvalidOption)
}

func TestVoiceConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultVoiceConfig().Validate())
	assert.NoError(t, VoiceConfig{Speaker: SpeakerExpressiveFemale, Speed: 2}.Validate())
	assert.NoError(t, VoiceConfig{Speaker: SpeakerExpertMale, Speed: 0.5}.Validate())

	assert.Error(t, VoiceConfig{Speaker: SpeakerExpertMale, Speed: 2.25}.Validate())
	assert.Error(t, VoiceConfig{Speaker: SpeakerExpertMale, Speed: 0.25}.Validate())
	assert.ErrorIs(t, VoiceConfig{Speaker: "Robot", Speed: 1}.Validate(), ErrInvalidOption)
}

func TestFileNodeKinds(t *testing.T) {
	f := FileNode{Name: "main.ts", Type: NodeFile}
	d := FileNode{Name: "src", Type: NodeFolder, Children: []FileNode{f}}
	assert.True(t, f.IsFile())
	assert.False(t, f.IsFolder())
	assert.True(t, d.IsFolder())
	assert.False(t, d.IsFile())
}
