package bossfight

import "github.com/2n4a/loreshifter/internal/session"

// Static reference data cloned into every boss-fight session. Sessions get
// copies so one table cannot leak mutations into another.

var worldLore = session.WorldDescription{
	Overview:    "Illarion endures the age of shattered constellations: dome cities shelter its people from the cosmic storms that followed the sky breaking apart.",
	Geography:   "The battleground is a crater torn open by a fallen star shard, ringed by lava fissures and the ruins of an ancient order of mages.",
	MagicSystem: "Magic is drawn from star shards. Their energy empowers arcanists, but channeling too much of it warps reality around the wielder.",
	Culture:     "The Warden and Star-Seer orders vie for control of the shards, while free heroes hire on with the dome cities to guard caravans and settlements.",
}

var characterRules = session.CharacterCreationRules{
	Attributes: []session.AttributeDefinition{
		{
			ID:          "vitality",
			Name:        "Vitality",
			Description: "Reserve of life force and resistance to damage. At least 3 points are needed to enter the fight.",
			MinValue:    3,
			MaxValue:    7,
		},
		{
			ID:          "might",
			Name:        "Might",
			Description: "Physical power, melee weapon handling and heavy equipment use.",
			MinValue:    0,
			MaxValue:    7,
		},
		{
			ID:          "arcana",
			Name:        "Arcana",
			Description: "Control over star energy, spell amplification and resistance to magical storms.",
			MinValue:    0,
			MaxValue:    7,
		},
		{
			ID:          "aid",
			Name:        "Aid",
			Description: "Effectiveness of field medicine, tinctures and stabilizing allies.",
			MinValue:    0,
			MaxValue:    7,
		},
	},
	TotalAssignablePoints: 12,
	Guidance:              "Spread your points across the attributes. A skill at 5 or higher unlocks a unique special ability tied to it.",
}

var itemCatalog = []session.ItemDefinition{
	{
		ID:          "weapon.sword",
		Name:        "Steel Sword",
		Category:    session.ItemCategoryAttack,
		Description: "A blade forged from star metal, favoured by frontline fighters.",
		Requirements: []session.ItemRequirement{
			{AttributeID: "might", RequiredPoints: 3},
		},
		Effects: []session.ItemEffect{
			{
				StatID:             "damage",
				Description:        "Slashing damage against a single target.",
				BaseValue:          18,
				ScalingAttributeID: "might",
				ScalingPerPoint:    2,
				Unit:               "damage",
			},
		},
	},
	{
		ID:          "weapon.staff",
		Name:        "Star Staff",
		Category:    session.ItemCategoryAttack,
		Description: "A conduit for arcane energy that releases focused beams of cosmic flame.",
		Requirements: []session.ItemRequirement{
			{AttributeID: "might", RequiredPoints: 2},
			{AttributeID: "arcana", RequiredPoints: 4},
		},
		Effects: []session.ItemEffect{
			{
				StatID:             "damage",
				Description:        "A piercing beam of starfire.",
				BaseValue:          16,
				ScalingAttributeID: "arcana",
				ScalingPerPoint:    3,
				Unit:               "damage",
			},
			{
				StatID:             "overheat",
				Description:        "Risk of overheating the conduit, reduced by high arcana.",
				BaseValue:          10,
				ScalingAttributeID: "arcana",
				ScalingPerPoint:    -1.5,
				Unit:               "% chance",
			},
		},
	},
	{
		ID:          "armor.shield",
		Name:        "Obsidian Plate Shield",
		Category:    session.ItemCategoryDefense,
		Description: "A shield forged from shards of the titan itself; it absorbs and redirects impacts.",
		Requirements: []session.ItemRequirement{
			{AttributeID: "might", RequiredPoints: 2},
		},
		Effects: []session.ItemEffect{
			{
				StatID:             "mitigation",
				Description:        "Share of incoming damage absorbed.",
				BaseValue:          40,
				ScalingAttributeID: "might",
				ScalingPerPoint:    4,
				Unit:               "%",
			},
			{
				StatID:             "max-block",
				Description:        "Maximum damage that can be held back in one turn.",
				BaseValue:          32,
				ScalingAttributeID: "vitality",
				ScalingPerPoint:    3,
				Unit:               "damage",
			},
		},
	},
	{
		ID:          "consumable.bandage",
		Name:        "Infused Bandage",
		Category:    session.ItemCategoryHealing,
		Description: "A restorative tincture woven into cloth. Heals quickly but is spent on use.",
		Requirements: []session.ItemRequirement{
			{AttributeID: "aid", RequiredPoints: 2},
		},
		Effects: []session.ItemEffect{
			{
				StatID:             "healing",
				Description:        "Immediate health restoration.",
				BaseValue:          22,
				ScalingAttributeID: "aid",
				ScalingPerPoint:    3,
				Unit:               "health",
			},
		},
		ConsumedOnUse: true,
	},
}

var bossProfile = session.BossProfile{
	Name:         "Obsidian Titan",
	Title:        "Warden of the Shattered Star",
	Backstory:    "The titan was built by the Star-Seer order to guard the dome cities, but lost itself after an infection of cosmic fury.",
	CombatStyle:  "Alternates crushing blows with sweeping waves of flame, growing stronger as its rage builds.",
	MaxHealth:    120,
	StartingRage: 10,
	SignatureEquipment: []string{
		"Blazing sceptre of the colossus",
		"Carapace of fused shards",
		"Cluster of gravity chains",
	},
	RagePhases: []session.RagePhase{
		{
			RageThreshold: 0,
			Description:   "Baseline state. The titan studies its targets and probes their defences.",
			AttackProfile: "Single fist strikes and stone spikes.",
		},
		{
			RageThreshold: 40,
			Description:   "Rage rising; the titan heats its carapace white-hot.",
			AttackProfile: "Plasma arcs and waves of molten glass.",
		},
		{
			RageThreshold: 75,
			Description:   "Siege mode. The titan saturates the arena with cosmic emanations.",
			AttackProfile: "Meteor strikes and gravity surges that demand coordination to survive.",
		},
		{
			RageThreshold: 90,
			Description:   "A destructive culmination as the rage slips out of control.",
			AttackProfile: "Initiates the Star Heart cataclysm, survivable only by interrupting the channel.",
		},
	},
}

var defaultHostInventory = []string{"weapon.sword", "armor.shield", "consumable.bandage"}

func cloneItemCatalog() []session.ItemDefinition {
	items := make([]session.ItemDefinition, len(itemCatalog))
	copy(items, itemCatalog)
	for i := range items {
		items[i].Requirements = append([]session.ItemRequirement(nil), itemCatalog[i].Requirements...)
		items[i].Effects = append([]session.ItemEffect(nil), itemCatalog[i].Effects...)
	}
	return items
}

func cloneCharacterRules() session.CharacterCreationRules {
	rules := characterRules
	rules.Attributes = append([]session.AttributeDefinition(nil), characterRules.Attributes...)
	return rules
}

func cloneBossProfile() session.BossProfile {
	profile := bossProfile
	profile.SignatureEquipment = append([]string(nil), bossProfile.SignatureEquipment...)
	profile.RagePhases = append([]session.RagePhase(nil), bossProfile.RagePhases...)
	return profile
}
