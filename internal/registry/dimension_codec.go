package registry

import "mcserverd/internal/protocol"

// dimensionCodec mirrors the vanilla registry codec LoginPlay ships
// verbatim: the dimension-type, biome, and chat-type registries, per §6
// and original_source/src/dimension/registry.rs's Registry shape. A client
// that never receives the biome/chat_type sub-registries disconnects on
// join, so all three are mandatory even though this core only ever places
// players in one dimension with one biome.
type dimensionCodec struct {
	DimensionType registryHolder[dimensionEntry] `nbt:"minecraft:dimension_type"`
	Biome         registryHolder[biomeEntry]     `nbt:"minecraft:worldgen/biome"`
	ChatType      registryHolder[chatTypeEntry]  `nbt:"minecraft:chat_type"`
}

type registryHolder[T any] struct {
	Type  string             `nbt:"type"`
	Value []registryEntry[T] `nbt:"value"`
}

type registryEntry[T any] struct {
	Name    string `nbt:"name"`
	ID      int32  `nbt:"id"`
	Element T      `nbt:"element"`
}

type dimensionEntry struct {
	PiglinSafe         byte    `nbt:"piglin_safe"`
	Natural            byte    `nbt:"natural"`
	AmbientLight       float32 `nbt:"ambient_light"`
	Infiniburn         string  `nbt:"infiniburn"`
	RespawnAnchorWorks byte    `nbt:"respawn_anchor_works"`
	HasSkylight        byte    `nbt:"has_skylight"`
	BedWorks           byte    `nbt:"bed_works"`
	Effects            string  `nbt:"effects"`
	FixedTime          int64   `nbt:"fixed_time,omitempty"`
	HasRaids           byte    `nbt:"has_raids"`
	LogicalHeight      int32   `nbt:"logical_height"`
	CoordinateScale    float64 `nbt:"coordinate_scale"`
	Ultrawarm          byte    `nbt:"ultrawarm"`
	HasCeiling         byte    `nbt:"has_ceiling"`
	MinY               int32   `nbt:"min_y"`
	Height             int32   `nbt:"height"`
}

var overworldDimension = dimensionEntry{
	PiglinSafe:      0,
	Natural:         1,
	AmbientLight:    0,
	Infiniburn:      "#minecraft:infiniburn_overworld",
	HasSkylight:     1,
	BedWorks:        1,
	Effects:         "minecraft:overworld",
	HasRaids:        1,
	LogicalHeight:   384,
	CoordinateScale: 1.0,
	MinY:            -64,
	Height:          384,
}

// biomeEntry mirrors original_source/src/dimension/biome.rs's
// BiomeProperties, trimmed to the fields every client-facing biome entry
// needs to populate (no particle/music tables, which belong to gameplay
// systems outside this core).
type biomeEntry struct {
	Precipitation string       `nbt:"precipitation"`
	Temperature   float32      `nbt:"temperature"`
	Downfall      float32      `nbt:"downfall"`
	Effects       biomeEffects `nbt:"effects"`
}

type biomeEffects struct {
	WaterColor    int32          `nbt:"water_color"`
	MoodSound     biomeMoodSound `nbt:"mood_sound"`
	WaterFogColor int32          `nbt:"water_fog_color"`
	FogColor      int32          `nbt:"fog_color"`
	SkyColor      int32          `nbt:"sky_color"`
}

type biomeMoodSound struct {
	Sound             string  `nbt:"sound"`
	Offset            float64 `nbt:"offset"`
	BlockSearchExtent int32   `nbt:"block_search_extent"`
	TickDelay         int32   `nbt:"tick_delay"`
}

var plainsBiome = biomeEntry{
	Precipitation: "rain",
	Temperature:   0.8,
	Downfall:      0.4,
	Effects: biomeEffects{
		WaterColor:    4159204,
		WaterFogColor: 329011,
		FogColor:      12638463,
		SkyColor:      7907327,
		MoodSound: biomeMoodSound{
			Sound:             "minecraft:ambient.cave",
			Offset:            2.0,
			BlockSearchExtent: 8,
			TickDelay:         6000,
		},
	},
}

// chatTypeEntry mirrors original_source/src/dimension/chat.rs's
// ChatElement: a chat decoration and a narration decoration (with its
// priority). Every field beneath Chat/Narration is itself optional in the
// original; the single built-in minecraft:chat entry populates both with
// the vanilla "chat.type.text" keys, leaves the style color empty, and
// carries no overlay.
type chatTypeEntry struct {
	Chat      chatDecorationHolder `nbt:"chat"`
	Narration chatNarrationHolder  `nbt:"narration"`
}

type chatDecorationHolder struct {
	Decoration chatDecoration `nbt:"decoration"`
}

type chatNarrationHolder struct {
	Decoration chatDecoration `nbt:"decoration"`
	Priority   string         `nbt:"priority"`
}

type chatDecoration struct {
	Parameters     []string  `nbt:"parameters"`
	TranslationKey string    `nbt:"translation_key"`
	Style          chatStyle `nbt:"style"`
}

type chatStyle struct {
	Color string `nbt:"color,omitempty"`
}

var chatType = chatTypeEntry{
	Chat: chatDecorationHolder{
		Decoration: chatDecoration{
			Parameters:     []string{"sender", "content"},
			TranslationKey: "chat.type.text",
		},
	},
	Narration: chatNarrationHolder{
		Decoration: chatDecoration{
			Parameters:     []string{"sender", "content"},
			TranslationKey: "chat.type.text.narrate",
		},
		Priority: "chat",
	},
}

// defaultDimensionCodec is the single-dimension, single-biome, single-chat-
// type registry this core ships: just enough for a LoginPlay bundle to
// reference valid "minecraft:overworld"/"minecraft:plains"/"minecraft:chat"
// entries. Servers embedding more variety extend this table, not the wire
// format.
var defaultDimensionCodec = dimensionCodec{
	DimensionType: registryHolder[dimensionEntry]{
		Type: "minecraft:dimension_type",
		Value: []registryEntry[dimensionEntry]{
			{Name: "minecraft:overworld", ID: 0, Element: overworldDimension},
		},
	},
	Biome: registryHolder[biomeEntry]{
		Type: "minecraft:worldgen/biome",
		Value: []registryEntry[biomeEntry]{
			{Name: "minecraft:plains", ID: 0, Element: plainsBiome},
		},
	},
	ChatType: registryHolder[chatTypeEntry]{
		Type: "minecraft:chat_type",
		Value: []registryEntry[chatTypeEntry]{
			{Name: "minecraft:chat", ID: 0, Element: chatType},
		},
	},
}

// DefaultRegistryCodec serializes the embedded dimension/biome/chat-type
// registry as NBT, the static blob LoginPlay writes verbatim per §6's
// "Embedded registry codec" interface.
func DefaultRegistryCodec() ([]byte, error) {
	return protocol.NBTBytes(defaultDimensionCodec)
}

// OverworldKey is the dimension key this core's single built-in dimension
// registers under.
var OverworldKey = protocol.MinecraftKey("overworld")
